package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/tradeops/mapping"
	"github.com/rustyeddy/tradeops/trade"
)

// sessionTTL bounds how long an idle mapping session stays open.
const sessionTTL = 30 * time.Minute

var sessions = mapping.NewSessions(sessionTTL)

var errAbandoned = errors.New("mapping abandoned")

const sessionHelp = `commands:
  set <field>=<Header>   map a field onto a header
  clear <field>          unmap a field
  type <equity|fx>       switch data type and remap
  auto                   discard edits and remap
  status                 show mapping coverage
  done                   finish once every required field is mapped
  quit                   abandon the mapping`

// editSession reads edit commands from in until done, quit or end of input.
// The session is looked up on every command so an idle one can expire.
func editSession(in io.Reader, out io.Writer, sessionID string) error {
	fmt.Fprintln(out, sessionHelp)
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		sess, ok := sessions.Get(sessionID)
		if !ok {
			return fmt.Errorf("session %s expired", sessionID)
		}

		verb, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)
		switch verb {
		case "":
		case "set":
			key, header, ok := strings.Cut(arg, "=")
			if !ok {
				fmt.Fprintln(out, "usage: set <field>=<Header>")
				continue
			}
			if err := sess.Set(strings.TrimSpace(key), strings.TrimSpace(header)); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			printStatus(out, sess.Status())
		case "clear":
			sess.Clear(arg)
			printStatus(out, sess.Status())
		case "type":
			dt, err := trade.ParseDataType(arg)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			sess.SwitchType(dt)
			printStatus(out, sess.Status())
		case "auto":
			sess.AutoMap()
			printStatus(out, sess.Status())
		case "status":
			printStatus(out, sess.Status())
		case "done":
			if sess.Ready() {
				return nil
			}
			printStatus(out, sess.Status())
		case "quit":
			return errAbandoned
		default:
			fmt.Fprintf(out, "unknown command %q\n", verb)
		}
	}
}

func printStatus(out io.Writer, st mapping.Status) {
	fmt.Fprintf(out, "mapped %d/%d fields, required %d/%d\n", st.Mapped, st.Total, st.RequiredMapped, st.RequiredTotal)
	if !st.Complete() {
		fmt.Fprintf(out, "missing required: %s\n", strings.Join(st.MissingRequired, ", "))
	}
}
