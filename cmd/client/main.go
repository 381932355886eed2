package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/client/api"
	"github.com/atinyakov/ClaimKeeper/internal/client/auth"
	"github.com/atinyakov/ClaimKeeper/internal/client/storage"
	"github.com/atinyakov/ClaimKeeper/internal/config"
	"github.com/atinyakov/ClaimKeeper/internal/logger"
)

var (
	version   string
	buildDate string
)

// repl runs the interactive shell loop, accepting commands to manage the
// session and claims.
func repl(manager *auth.Manager, client *api.Client, claims *storage.ClaimsStore) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("claimkeeper> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, logout, whoami, me, submit, claims [claimant], get <id>, exit")
		case "login":
			if manager.IsAuthenticated() {
				fmt.Println("Already logged in; logout first")
				continue
			}
			username, password := storage.PromptCredentials(scanner)
			if err := manager.Login(context.Background(), username, password); err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			if user, ok := manager.CurrentUser(); ok {
				fmt.Printf("Welcome, %s %s\n", user.FirstName, user.LastName)
			}
		case "logout":
			if err := manager.Logout(); err != nil {
				fmt.Println("Logout failed:", err)
				continue
			}
			fmt.Println("Logged out")
		case "whoami":
			user, ok := manager.CurrentUser()
			if !ok {
				fmt.Println("Not logged in")
				continue
			}
			fmt.Printf("%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Email, user.Role)
		case "me":
			// remote profile fetch; goes through the token refresh interceptor
			user, err := client.Me(context.Background())
			if err != nil {
				fmt.Println("Profile fetch failed:", err)
				if !manager.CheckAuth() {
					fmt.Println("Session expired, please login again")
				}
				continue
			}
			fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
		case "submit":
			if !manager.IsAuthenticated() {
				fmt.Println("Please login first")
				continue
			}
			in, err := storage.PromptForClaim(scanner)
			if err != nil {
				fmt.Println(err)
				continue
			}
			claim, err := claims.Add(in.Type, in.Date, in.Claimant, in.Amount)
			if err != nil {
				fmt.Println("Claim rejected:", err)
				continue
			}
			fmt.Println("Claim submitted successfully! ID:", claim.ID)
		case "claims":
			claimant := storage.AllClaimants
			if len(args) > 1 {
				claimant = strings.Join(args[1:], " ")
			}
			list, err := claims.ByClaimant(claimant)
			if err != nil {
				fmt.Println("Failed to load claims:", err)
				continue
			}
			if len(list) == 0 {
				fmt.Println("No claims found")
				continue
			}
			for _, c := range list {
				fmt.Printf("ID: %s\nType: %s\nDate: %s\nClaimant: %s\nAmount: %.2f\nStatus: %s\n---\n",
					c.ID, c.Type, c.Date, c.Claimant, c.Amount, c.Status)
			}
		case "get":
			if len(args) < 2 {
				fmt.Println("Usage: get <id>")
				continue
			}
			claim, err := claims.ByID(args[1])
			if err != nil {
				fmt.Println("Failed to load claim:", err)
				continue
			}
			if claim == nil {
				fmt.Println("Claim not found")
				continue
			}
			b, _ := json.MarshalIndent(claim, "", "  ")
			fmt.Println(string(b))
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath string
		showVer    bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&configPath, "c", "", "path to config file (shorthand)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("ClaimKeeper Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	if path := os.Getenv("CONFIG"); path != "" {
		configPath = path
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New()
	if err := log.Init(cfg.Log.Level); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	opts := storage.Options{
		Path:          cfg.Client.StorePath,
		ID:            cfg.Client.StoreID,
		EncryptionKey: cfg.Client.StoreKey,
	}
	kv, err := storage.Open(opts)
	if err != nil {
		// An unreadable store must not prevent startup; the old file is set
		// aside and the session falls back to unauthenticated.
		zapLogger.Warn("local store unavailable, starting fresh", zap.Error(err))
		_ = os.Rename(opts.Path, opts.Path+".corrupt")
		if kv, err = storage.Open(opts); err != nil {
			zapLogger.Fatal("cannot open local store", zap.Error(err))
		}
	}

	sessions := storage.NewSessionStore(kv)
	claims := storage.NewClaimsStore(kv)
	client := api.New(api.Config{BaseURL: cfg.Client.BaseURL, Timeout: cfg.Client.Timeout}, sessions, zapLogger)
	manager := auth.NewManager(sessions, client, zapLogger)

	if manager.CheckAuth() {
		if user, ok := manager.CurrentUser(); ok {
			fmt.Printf("Welcome back, %s %s\n", user.FirstName, user.LastName)
		}
	} else {
		fmt.Println("Not logged in. Use 'login' to start a session.")
	}

	repl(manager, client, claims)
}
