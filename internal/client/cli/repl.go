package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/profilekeeper/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Details(ctx context.Context) error
	Edit(ctx context.Context, v services.UpdateVariant) error
	Photo(ctx context.Context, path string) error
	DeleteAccount(ctx context.Context) error
	Gallery(ctx context.Context) error
	Upload(ctx context.Context, paths []string) error
	Replace(ctx context.Context, id, path string) error
	Remove(ctx context.Context, id string) error
	ClearGallery(ctx context.Context) error
	Cart(ctx context.Context) error
	Back(ctx context.Context) error
}

const helpText = `Available commands:
  register                 create an account
  login                    sign in
  home                     show your profile
  details                  show your profile (token lookup)
  edit                     edit your profile by user id
  edit-token               edit your profile with the token
  photo <path>             replace the profile photo
  delete-account           delete your account
  logout                   sign out
  gallery                  list local gallery images
  upload <path>...         add images to the gallery
  replace <id> <path>      replace a gallery image
  remove <id>              remove a gallery image
  clear-gallery            remove every gallery image
  cart                     show remote cart images
  back                     go to the previous page
  exit | quit              leave the program

Wrap paths that contain spaces in quotes: photo "my photo.png"`

var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits line on whitespace. Text inside single or double quotes
// is kept together with the quotes removed, so "a b.png" is one argument.
func splitArgs(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// runREPL starts a simple read-eval-print loop for the profilekeeper CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on a. The same reader is shared with interactive
// prompts so buffered input is never lost between them. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pk %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts, err := splitArgs(line)
		if err != nil {
			printlnFn("Error:", err.Error())
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "home":
			_ = a.Home(ctx)

		case "details":
			_ = a.Details(ctx)

		case "edit":
			_ = a.Edit(ctx, services.ViaUserID)

		case "edit-token":
			_ = a.Edit(ctx, services.ViaToken)

		case "photo":
			if len(args) != 1 {
				printlnFn("Usage: photo <path>")
				continue
			}
			_ = a.Photo(ctx, args[0])

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "gallery":
			_ = a.Gallery(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>...")
				continue
			}
			_ = a.Upload(ctx, args)

		case "replace":
			if len(args) != 2 {
				printlnFn("Usage: replace <id> <path>")
				continue
			}
			_ = a.Replace(ctx, args[0], args[1])

		case "remove":
			if len(args) != 1 {
				printlnFn("Usage: remove <id>")
				continue
			}
			_ = a.Remove(ctx, args[0])

		case "clear-gallery":
			_ = a.ClearGallery(ctx)

		case "cart":
			_ = a.Cart(ctx)

		case "back":
			_ = a.Back(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
