package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/render"
	"github.com/utafrali/storefront/internal/scroll"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const helpText = `Commands:
  enter, j, down     scroll down one screen
  k, up              scroll up one screen
  G, end             jump to the bottom of the listing
  more               load the next page without scrolling
  page N             jump to page N
  show ID            show the product with id ID
  categories         list the categories
  list               redraw the listing
  help               show this help
  q, quit            leave
`

// browser is the per-session state of the interactive listing.
type browser struct {
	app  *App
	view scroll.Viewport
	more *scroll.Trigger
}

// Browse runs the interactive listing. It reads one command per line from in
// and redraws after each one. It returns when the user quits, in is
// exhausted or ctx is done.
func (a *App) Browse(ctx context.Context, in io.Reader) error {
	ctx = a.Context(ctx)

	b := &browser{
		app:  a,
		view: scroll.Viewport{Height: a.cfg.ViewportHeight},
		more: scroll.NewTrigger(),
	}

	detachScroll := a.listing.Attach(ctx, a.detector)
	defer detachScroll()
	detachMore := a.listing.Attach(ctx, b.more)
	defer detachMore()

	cancel := a.listing.Subscribe(func(s domain.PaginationState) {
		if s.IsLoading {
			return
		}
		if err := a.listing.Err(); err != nil {
			a.notifier.Show(render.ErrorMessage(err))
		}
	})
	defer cancel()

	if err := a.categories.Init(ctx); err != nil {
		a.logger.WarnContext(ctx, "category menu unavailable",
			slog.String("kind", apperrors.KindOf(err)),
			slog.String("error", err.Error()),
		)
	}

	a.listing.RequestNextPage(ctx)
	b.draw()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.listing.Wait()
			return nil
		case line, ok := <-lines:
			if !ok {
				a.listing.Wait()
				return nil
			}
			if quit := b.handle(ctx, line); quit {
				a.listing.Wait()
				return nil
			}
		}
	}
}

// handle runs one command and reports whether the session should end.
func (b *browser) handle(ctx context.Context, line string) bool {
	a := b.app
	fields := strings.Fields(line)
	cmd := ""
	if len(fields) > 0 {
		cmd = strings.ToLower(fields[0])
	}

	switch cmd {
	case "", "j", "down":
		b.scroll(b.view.ScrollBy(b.view.Height))
	case "k", "up":
		b.scroll(b.view.ScrollBy(-b.view.Height))
	case "g", "end":
		b.scroll(b.view.ScrollToBottom())
	case "more":
		b.more.Fire()
		a.listing.Wait()
		b.draw()
	case "page":
		b.jump(ctx, fields[1:])
	case "show":
		if len(fields) != 2 {
			a.notifier.Show("Usage: show ID")
			b.draw()
			return false
		}
		_ = a.ShowProduct(ctx, fields[1])
	case "categories":
		_ = a.ShowCategories(ctx)
	case "list":
		b.draw()
	case "help", "?":
		a.write(helpText)
	case "q", "quit", "exit":
		return true
	default:
		a.notifier.Show(fmt.Sprintf("Unknown command %q. Type 'help' for a list.", cmd))
		b.draw()
	}
	return false
}

// scroll moves to v and lets the detector decide whether that is close
// enough to the bottom to load the next page.
func (b *browser) scroll(v scroll.Viewport) {
	b.view = v
	if b.app.detector.Observe(b.view) {
		b.app.listing.Wait()
	}
	b.draw()
}

func (b *browser) jump(ctx context.Context, args []string) {
	a := b.app
	if len(args) != 1 {
		a.notifier.Show("Usage: page N")
		b.draw()
		return
	}

	p, err := strconv.Atoi(args[0])
	if err != nil {
		a.notifier.Show(fmt.Sprintf("%q is not a page number", args[0]))
		b.draw()
		return
	}

	if err := a.listing.GoToPage(ctx, p); err != nil && apperrors.KindOf(err) == apperrors.KindInvalidInput {
		// Fetch failures reach the notifier through the listener.
		a.notifier.Show(render.ErrorMessage(err))
	}
	b.view.Offset = 0
	b.draw()
}

// draw writes the visible window of the listing followed by the status line.
func (b *browser) draw() {
	a := b.app
	s := a.listing.State()

	content := strings.Split(strings.TrimRight(a.listView.Render(s), "\n"), "\n")
	b.view = b.view.WithContentHeight(len(content))

	end := b.view.Offset + b.view.Height
	if end > len(content) {
		end = len(content)
	}

	var out strings.Builder
	out.WriteString(a.notifier.Render())
	for _, line := range content[b.view.Offset:end] {
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString(statusLine(s, a.cfg.TotalPages, b.view))
	a.write(out.String())
}

func statusLine(s domain.PaginationState, totalPages int, v scroll.Viewport) string {
	more := "more below"
	if !s.HasMore {
		more = "end of results"
	}
	return fmt.Sprintf("-- page %d/%d | %d products | lines %d-%d of %d | %s | 'help' for commands --\n",
		s.CurrentPage, totalPages, len(s.Products),
		min(v.Offset+1, v.ContentHeight), min(v.Offset+v.Height, v.ContentHeight), v.ContentHeight,
		more,
	)
}
