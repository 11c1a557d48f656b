// Command keyadmin manages provider credentials in the pipeline database.
// It backs the admin surface: keys added or revoked here become visible to
// the running pipeline once its key cache TTL lapses.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"autoblog/internal/config"
	"autoblog/internal/domain"
	"autoblog/internal/infrastructure/storage"
)

func main() {
	provider := flag.String("provider", "", "provider name: openai, claude, or gemini")
	secret := flag.String("secret", "", "API key to store (add only)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 || *provider == "" {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	repo := storage.NewRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "prepare storage: %v\n", err)
		os.Exit(1)
	}

	target := domain.Provider(*provider)
	switch target {
	case domain.ProviderOpenAI, domain.ProviderClaude, domain.ProviderGemini:
	default:
		fmt.Fprintf(os.Stderr, "unknown provider %q\n", *provider)
		os.Exit(2)
	}

	switch cmd := flag.Arg(0); cmd {
	case "add":
		if *secret == "" {
			fmt.Fprintln(os.Stderr, "add requires -secret")
			os.Exit(2)
		}
		err = repo.InsertCredential(ctx, domain.Credential{
			Provider: target,
			Secret:   *secret,
			Active:   true,
		})
	case "deactivate":
		err = repo.DeactivateCredential(ctx, target)
	case "delete":
		err = repo.DeleteCredential(ctx, target)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: keyadmin -provider NAME [-secret KEY] COMMAND

Commands:
  add         store a new active credential (requires -secret)
  deactivate  soft-delete all credentials for the provider
  delete      hard-delete all credentials for the provider
`)
}
