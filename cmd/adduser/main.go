package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"pool-ledger/internal/storage"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	id := fs.String("id", "", "User ID (optional, generated if omitted)")
	nameFlag := fs.String("name", "", "Display name (optional, will prompt if omitted)")
	avatar := fs.String("avatar", "", "Avatar URL (optional)")
	dbPath := fs.String("db", "pools.db", "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stdout, "Usage: adduser [-id <id>] [-name <name>] [-avatar <url>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	name := strings.TrimSpace(*nameFlag)
	if name == "" {
		if isTerminal(stdin) {
			fmt.Fprint(stdout, "Name: ")
		}
		var err error
		name, err = readLine(stdin)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read name: %w", err)
		}
		name = strings.TrimSpace(name)
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	// Allow overriding db path via env var if not explicitly set via flag (flag default is used)
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == "pools.db" {
		*dbPath = path
	}

	db, err := storage.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if *id != "" {
		if _, err := db.GetUser(*id); err == nil {
			return fmt.Errorf("user %s already exists", *id)
		} else if !errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("failed to look up user: %w", err)
		}
	}

	user, err := db.CreateUser(*id, name, *avatar)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Name, user.ID)
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readLine(stdin io.Reader) (string, error) {
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
