package askcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/composer"
	"github.com/papercomputeco/shopgpt/pkg/product"
	"github.com/papercomputeco/shopgpt/pkg/session"
)

const askLongDesc string = `Ask the assistant from the command line.

With a question as arguments, ask sends it once, prints the reply and the
top products, and exits. Without arguments it reads one message per line
from standard input, keeping the conversation going until end of input,
until the assistant ends the conversation, or until a line reads quit, exit
or bye.

Examples:
  shopgpt ask "running shoes under $100"
  shopgpt ask --max-products 5 wireless earbuds
  printf 'desk lamp\nthe cheapest one\n' | shopgpt ask`

const askShortDesc string = "Ask the assistant from the command line"

const prompt = "> "

type askCommander struct {
	maxProducts int

	out    io.Writer
	errOut io.Writer
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: askShortDesc,
		Long:  askLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().IntVarP(&cmder.maxProducts, "max-products", "n", 3, "Products to print per reply")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Load(cmd, bootstrap.LogStderr)
	if err != nil {
		return err
	}
	defer env.Close()

	c.out = cmd.OutOrStdout()
	c.errOut = cmd.ErrOrStderr()

	// A single question returns its failure; the line loop reports each
	// failure and keeps reading.
	var opts []session.Option
	if len(args) == 0 {
		opts = append(opts, session.WithNotifier(session.NotifierFunc(func(err error) {
			fmt.Fprintf(c.errOut, "Error: %v\n", err)
		})))
	}
	sess := session.New(env.Client, env.Logger, opts...)
	defer sess.Close()

	sender := &lineSender{ctx: ctx, sess: sess, logger: env.Logger, print: c.printReply}
	comp := composer.New(sender)

	if len(args) > 0 {
		comp.SetDraft(strings.Join(args, " "))
		if !comp.Submit() {
			return errors.New("nothing to ask")
		}
		return sender.err
	}

	return c.loop(cmd.InOrStdin(), comp, sess)
}

// loop reads one message per line. Failed exchanges are reported and the
// loop continues.
func (c *askCommander) loop(in io.Reader, comp *composer.Composer, sess *session.Session) error {
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)

	for {
		if interactive {
			fmt.Fprint(c.out, prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if composer.IsQuitWord(line) {
			return nil
		}

		comp.SetDraft(line)
		comp.Submit()

		if sess.Ended() {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}
	return nil
}

func (c *askCommander) printReply(msg session.Message) {
	fmt.Fprintln(c.out, strings.TrimSpace(msg.Content))

	shown := msg.Products
	if c.maxProducts >= 0 && len(shown) > c.maxProducts {
		shown = shown[:c.maxProducts]
	}
	for i, p := range shown {
		fmt.Fprintln(c.out)
		fmt.Fprint(c.out, formatProduct(i+1, p))
	}
	if more := len(msg.Products) - len(shown); more > 0 {
		fmt.Fprintf(c.out, "\n(%d more)\n", more)
	}
}

func formatProduct(n int, p product.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", n, p.Title)

	var facts []string
	if price, ok := p.DisplayPrice(); ok {
		facts = append(facts, price)
	}
	if pct, ok := p.Savings(); ok {
		facts = append(facts, fmt.Sprintf("%d%% off", pct))
	}
	if p.Rating != nil {
		rating := fmt.Sprintf("%.1f stars", *p.Rating)
		if reviews, ok := p.Reviews(); ok {
			rating += fmt.Sprintf(" (%d reviews)", reviews)
		}
		facts = append(facts, rating)
	}
	if len(facts) > 0 {
		fmt.Fprintf(&b, "   %s\n", strings.Join(facts, " | "))
	}
	fmt.Fprintf(&b, "   %s\n", p.DeepLink())
	return b.String()
}

// lineSender runs each accepted message to completion before returning.
type lineSender struct {
	ctx    context.Context
	sess   *session.Session
	logger *zap.Logger
	print  func(session.Message)

	err error
}

func (s *lineSender) Pending() bool {
	return s.sess.Pending()
}

func (s *lineSender) Submit(text string) bool {
	reply, err := s.sess.Send(s.ctx, text)
	if errors.Is(err, session.ErrNotAccepted) {
		return false
	}
	s.err = err
	if err != nil {
		return true
	}

	s.print(reply)
	if head, depth, err := s.sess.Head(s.ctx); err == nil {
		s.logger.Debug("conversation advanced",
			zap.String("transcript_head", head.ShortHash()),
			zap.Int("depth", depth),
		)
	}
	return true
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
