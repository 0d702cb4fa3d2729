// Command cli is an interactive terminal client for the ledger. It is pure
// presentation: every command delegates to the ledger service and renders
// the result or error kind as text.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/minibank/ledger/pkg/registry"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
	"golang.org/x/term"
)

var (
	errText   = color.New(color.FgRed)
	okText    = color.New(color.FgGreen)
	promptFmt = color.New(color.FgCyan)
)

func main() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(logger)
	svc := ledgersvc.New(reg, logger)

	fmt.Println("minibank ledger - type 'help' for commands")
	repl(svc, bufio.NewReader(os.Stdin))
}

func repl(svc *ledgersvc.Service, in *bufio.Reader) {
	var sess *ledgersvc.Session

	for {
		if sess != nil {
			promptFmt.Printf("%s> ", sess.Username())
		} else {
			promptFmt.Print("> ")
		}
		line, err := in.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			fmt.Println("commands: register <user>, login <user>, deposit <amount>,")
			fmt.Println("  withdraw <amount>, transfer <user> <amount>, history,")
			fmt.Println("  balances, logout, quit")
		case "register":
			if len(args) != 1 {
				errText.Println("usage: register <username>")
				continue
			}
			password, err := readPassword("Password: ")
			if err != nil {
				errText.Println(err)
				continue
			}
			if err := svc.Register(args[0], password); err != nil {
				errText.Println(err)
				continue
			}
			okText.Println("registration successful")
		case "login":
			if len(args) != 1 {
				errText.Println("usage: login <username>")
				continue
			}
			password, err := readPassword("Password: ")
			if err != nil {
				errText.Println(err)
				continue
			}
			s, err := svc.Login(args[0], password)
			if err != nil {
				errText.Println(err)
				continue
			}
			sess = s
			balance, _ := svc.Balance(sess)
			okText.Printf("welcome %s, balance: $%s\n", sess.Username(), balance.Fixed())
		case "deposit", "withdraw":
			if len(args) != 1 {
				errText.Printf("usage: %s <amount>\n", cmd)
				continue
			}
			op := svc.Deposit
			if cmd == "withdraw" {
				op = svc.Withdraw
			}
			balance, err := op(sess, args[0])
			if err != nil {
				errText.Println(err)
				continue
			}
			okText.Printf("%s successful, balance: $%s\n", cmd, balance.Fixed())
		case "transfer":
			if len(args) != 2 {
				errText.Println("usage: transfer <username> <amount>")
				continue
			}
			balance, err := svc.Transfer(sess, args[0], args[1])
			if err != nil {
				errText.Println(err)
				continue
			}
			okText.Printf("transfer successful, balance: $%s\n", balance.Fixed())
		case "history":
			entries, err := svc.History(sess)
			if err != nil {
				errText.Println(err)
				continue
			}
			for _, e := range entries {
				fmt.Println(e)
			}
		case "balances":
			balances, err := svc.ListBalances(sess)
			if err != nil {
				errText.Println(err)
				continue
			}
			usernames := make([]string, 0, len(balances))
			for u := range balances {
				usernames = append(usernames, u)
			}
			sort.Strings(usernames)
			for _, u := range usernames {
				fmt.Printf("%s: $%s\n", u, balances[u].Fixed())
			}
		case "logout":
			svc.Logout(sess)
			sess = nil
			okText.Println("logged out")
		case "quit", "exit":
			return
		default:
			errText.Printf("unknown command: %s\n", cmd)
		}
	}
}

// readPassword prompts for a password without echoing it.
func readPassword(prompt string) (string, error) {
	promptFmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
