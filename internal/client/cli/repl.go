package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit(ctx context.Context) error
	Photo(ctx context.Context, path string) error
	Save(ctx context.Context) error
	Passwd(ctx context.Context) error
	Delete(ctx context.Context) error
	Routes(ctx context.Context) error
	Select(ctx context.Context, id string) error
	Map(ctx context.Context) error
	Locate(ctx context.Context) error
	Users(ctx context.Context) error
}

const (
	helpLoggedOut = "Comandos: register, login, profile, routes, users, exit"
	helpLoggedIn  = "Comandos: whoami, profile, edit, photo <ruta>, save, passwd, delete, " +
		"routes, select <id>, map, locate, users, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the PatinaPRO CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Command handlers read their own follow-up
// input from the same reader. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("patina %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "photo":
			if len(args) == 0 {
				printlnFn("Uso: photo <ruta>")
				continue
			}
			_ = a.Photo(ctx, strings.Join(args, " "))

		case "save":
			_ = a.Save(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "routes":
			_ = a.Routes(ctx)

		case "select":
			if len(args) == 0 {
				printlnFn("Uso: select <id>")
				continue
			}
			_ = a.Select(ctx, args[0])

		case "map":
			_ = a.Map(ctx)

		case "locate":
			_ = a.Locate(ctx)

		case "users":
			_ = a.Users(ctx)

		case "exit", "quit":
			printlnFn("¡Hasta pronto!")
			return

		default:
			printlnFn("Comando desconocido:", cmd)
		}
	}
}
