package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cv-platform-backend/internal/domain"
	"cv-platform-backend/pkg/session"
)

const usage = `usage: cvctl [-api URL] [-session FILE] <command> [args]

commands:
  login <email> <password>   sign in and remember the session
  logout                     forget the session
  whoami                     print the signed-in user
  has-profile [userId]       report whether the user owns a candidate profile
  submit <file.json>         submit a CV profile and print the CV link
`

func main() {
	apiURL := flag.String("api", envOr("CV_API_URL", "http://localhost:5000"), "API base URL")
	sessionPath := flag.String("session", defaultSessionPath(), "session file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := session.Open(*sessionPath, session.NewAPIClient(*apiURL, nil))
	if err != nil {
		fatal(err)
	}

	if err := run(ctx, store, flag.Arg(0), flag.Args()[1:]); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, store *session.Store, cmd string, args []string) error {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return errors.New("login needs <email> <password>")
		}
		user, err := store.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
		// Candidates without a profile are sent to the submission form.
		if user.Role == domain.RoleCandidate && !store.CheckCandidateProfile(ctx, user.ID) {
			fmt.Println("no candidate profile yet: run `cvctl submit <file.json>`")
		}
		return nil

	case "logout":
		return store.Logout()

	case "whoami":
		user, ok := store.Current()
		if !ok {
			return session.ErrNotLoggedIn
		}
		return printJSON(user)

	case "has-profile":
		user, ok := store.Current()
		if !ok {
			return session.ErrNotLoggedIn
		}
		id := user.ID
		if len(args) > 0 {
			id = args[0]
		}
		fmt.Println(store.CheckCandidateProfile(ctx, id))
		return nil

	case "submit":
		if len(args) != 1 {
			return errors.New("submit needs <file.json>")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var sub domain.CVSubmission
		if err := json.Unmarshal(raw, &sub); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		res, err := store.SubmitCV(ctx, sub)
		if err != nil {
			return err
		}
		return printJSON(res)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cvctl", "session.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "cvctl:", err)
	os.Exit(1)
}
