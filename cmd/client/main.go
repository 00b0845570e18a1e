// Package main implements the interactive NoteKeeper client shell. It wires
// the session store, API gateway, resource controllers and the session
// lifecycle coordinator, and drives them from a line-based prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"notekeeper/internal/client/api"
	"notekeeper/internal/client/auth"
	"notekeeper/internal/client/notes"
	"notekeeper/internal/client/profile"
	"notekeeper/internal/client/session"
	"notekeeper/internal/logger"
)

var (
	version   string
	buildDate string
)

// app bundles the client components driven by the shell.
type app struct {
	store   *session.Store
	auth    *auth.Coordinator
	notes   *notes.Controller
	profile *profile.Controller
	in      *bufio.Scanner
}

// prompt prints a label and reads one trimmed line from the user.
func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// repl runs the interactive shell loop, accepting commands to manage the
// session, notes and the user profile.
func (a *app) repl() {
	for {
		fmt.Print("notekeeper> ")
		if !a.in.Scan() {
			return
		}
		line := strings.TrimSpace(a.in.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		ctx := context.Background()

		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, register, logout, whoami, notes, add, edit <id>, delete <id>, profile, profile-edit, exit")
		case "login":
			username := a.prompt("Username: ")
			password := a.prompt("Password: ")
			sess, err := a.auth.Login(ctx, username, password)
			if err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Println("Logged in as", sess.Subject)
		case "register":
			form := auth.RegistrationForm{
				Username:        a.prompt("Username: "),
				Email:           a.prompt("Email: "),
				Password:        a.prompt("Password: "),
				ConfirmPassword: a.prompt("Confirm password: "),
				OtherInfo:       a.prompt("Other info: "),
			}
			sess, err := a.auth.Register(ctx, form)
			if err != nil {
				fmt.Println("Registration failed:", err)
				continue
			}
			fmt.Println("Registered and logged in as", sess.Subject)
		case "logout":
			if err := a.auth.Logout(); err != nil {
				fmt.Println("Logout failed:", err)
				continue
			}
			fmt.Println("Logged out")
		case "whoami":
			sess := a.store.Session()
			if sess.Status != session.Authenticated {
				fmt.Println("Not logged in")
			} else {
				fmt.Println(sess.Subject)
			}
		case "notes":
			list, err := a.notes.Load(ctx)
			if err != nil {
				fmt.Println("Failed to load notes:", err)
				continue
			}
			if len(list) == 0 {
				fmt.Println("No notes available.")
				continue
			}
			for _, n := range list {
				fmt.Printf("ID: %d\nTitle: %s\nContent: %s\n---\n", n.ID, n.Title, n.Content)
			}
		case "add":
			title := a.prompt("Title: ")
			content := a.prompt("Content: ")
			created, err := a.notes.Create(ctx, title, content)
			if err != nil {
				fmt.Println("Failed to create note:", err)
				continue
			}
			fmt.Println("Created note", created.ID)
		case "edit":
			id, ok := parseID(args)
			if !ok {
				fmt.Println("Usage: edit <id>")
				continue
			}
			title := a.prompt("New title: ")
			content := a.prompt("New content: ")
			if _, err := a.notes.Update(ctx, id, title, content); err != nil {
				fmt.Println("Failed to update note:", err)
				continue
			}
			fmt.Println("Note updated")
		case "delete":
			id, ok := parseID(args)
			if !ok {
				fmt.Println("Usage: delete <id>")
				continue
			}
			if err := a.notes.Delete(ctx, id); err != nil {
				fmt.Println("Failed to delete note:", err)
				continue
			}
			fmt.Println("Note deleted")
		case "profile":
			p, err := a.profile.Load(ctx)
			if err != nil {
				fmt.Println("Failed to load profile:", err)
				continue
			}
			fmt.Printf("Username: %s\nEmail: %s\nOther info: %s\n", p.Username, p.Email, p.OtherInfo)
		case "profile-edit":
			if _, err := a.profile.Load(ctx); err != nil {
				fmt.Println("Failed to load profile:", err)
				continue
			}
			email := a.prompt("New email: ")
			otherInfo := a.prompt("New other info: ")
			updated, err := a.profile.Update(ctx, email, otherInfo)
			if err != nil {
				fmt.Println("Failed to update profile:", err)
				continue
			}
			fmt.Println("Profile updated for", updated.Username)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// parseID extracts the numeric id argument of an edit/delete command.
func parseID(args []string) (int64, bool) {
	if len(args) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// main parses command-line flags, restores any persisted session and starts
// the shell.
func main() {
	var (
		baseURL     string
		sessionFile string
		logLevel    string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.StringVar(&sessionFile, "session", "session.json", "path to the persisted session file")
	flag.StringVar(&logLevel, "l", "error", "log level")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("NoteKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zapLogger, err := logger.New(logLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	store := session.NewStore(sessionFile)
	if err := store.Restore(); err != nil {
		log.Fatal(err)
	}

	client := api.New(baseURL, nil, store, zapLogger)
	notesCtrl := notes.NewController(client, zapLogger)
	profileCtrl := profile.NewController(client, zapLogger)
	coordinator := auth.NewCoordinator(client, store, zapLogger, notesCtrl, profileCtrl)

	a := &app{
		store:   store,
		auth:    coordinator,
		notes:   notesCtrl,
		profile: profileCtrl,
		in:      bufio.NewScanner(os.Stdin),
	}

	if sess := store.Session(); sess.Status == session.Authenticated {
		fmt.Println("Restored session for", sess.Subject)
	}
	a.repl()
}
