package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxarena/voxarena/internal/debate"
	"github.com/voxarena/voxarena/internal/export"
	"github.com/voxarena/voxarena/internal/persona"
	"github.com/voxarena/voxarena/internal/seed"
	"github.com/voxarena/voxarena/internal/storage"
	"github.com/voxarena/voxarena/internal/taxonomy"
	"github.com/voxarena/voxarena/web/handlers"
)

var (
	dbPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "voxarena",
	Short: "Staged AI persona debate manager",
	Long: `voxarena manages staged debates between AI personas.

Define debates with formats and participant rosters, build personas with
taxonomy-driven traits, and walk debates through their lifecycle.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: ~/.voxarena/voxarena.db)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(serveCmd)
}

func getStorage() (storage.Storage, error) {
	path := dbPath
	if path == "" {
		path = storage.DefaultDBPath()
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		return nil, err
	}

	return store, nil
}

// resolveDebateID finds a full debate id from a prefix.
func resolveDebateID(svc *debate.Service, prefix string) (string, error) {
	debates, err := svc.List(100, 0)
	if err != nil {
		return "", err
	}
	for _, d := range debates {
		if strings.HasPrefix(d.ID, prefix) {
			return d.ID, nil
		}
	}
	return "", fmt.Errorf("debate not found: %s", prefix)
}

// list command - list all debates
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all debates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := debate.NewService(store)
		debates, err := svc.List(50, 0)
		if err != nil {
			return err
		}

		if len(debates) == 0 {
			fmt.Println("No debates found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tFORMAT\tPARTICIPANTS\tCREATED")
		fmt.Fprintln(w, "──\t─────\t──────\t──────\t────────────\t───────")

		for _, d := range debates {
			shortID := d.ID[:8]
			shortTitle := d.Title
			if len(shortTitle) > 40 {
				shortTitle = shortTitle[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				shortID,
				shortTitle,
				d.Status,
				d.Format,
				d.ParticipantCount,
				d.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		w.Flush()

		return nil
	},
}

// show command - show a debate
var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show debate details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := debate.NewService(store)

		debateID, err := resolveDebateID(svc, args[0])
		if err != nil {
			return err
		}

		d, err := svc.Get(debateID)
		if err != nil {
			return err
		}

		fmt.Printf("\n🎭 Debate: %s\n", d.Title)
		fmt.Printf("   ID: %s\n", d.ID)
		fmt.Printf("   Topic: %s\n", d.Topic)
		fmt.Printf("   Status: %s\n", d.Status)
		fmt.Printf("   Format: %s\n", d.Format)
		fmt.Printf("   Created: %s\n", d.CreatedAt.Format(time.RFC3339))
		fmt.Println()

		if len(d.Participants) > 0 {
			fmt.Println(strings.Repeat("─", 60))
			for _, p := range d.Participants {
				name := p.DisplayName
				if name == "" {
					name = p.PersonaName
				}
				fmt.Printf("  %-12s %s\n", p.Role, name)
			}
		}

		return nil
	},
}

// delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a debate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := debate.NewService(store)

		debateID, err := resolveDebateID(svc, args[0])
		if err != nil {
			return err
		}

		if err := svc.Delete(debateID); err != nil {
			return err
		}

		fmt.Printf("Deleted debate: %s\n", debateID)
		return nil
	},
}

// export command
var exportFormatFlag string

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a debate to markdown, json, or pdf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := debate.NewService(store)

		debateID, err := resolveDebateID(svc, args[0])
		if err != nil {
			return err
		}

		d, err := svc.Get(debateID)
		if err != nil {
			return err
		}

		exporter, err := export.GetExporter(export.Format(exportFormatFlag))
		if err != nil {
			return err
		}

		filename := export.GenerateFilename(d, exporter.FileExtension())
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(d, f); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported to %s\n", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "f", "markdown", "Export format (markdown, json, pdf)")
}

// personas command
var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		svc := persona.NewService(store, nil, nil)
		personas, err := svc.List()
		if err != nil {
			return err
		}

		if len(personas) == 0 {
			fmt.Println("No personas found.")
			return nil
		}

		fmt.Println("\nPersonas:")
		fmt.Println(strings.Repeat("─", 60))

		for _, p := range personas {
			fmt.Printf("\n%s (%s)\n", p.Name, p.ID[:8])
			if p.Description != "" {
				fmt.Printf("  %s\n", p.Description)
			}
		}

		return nil
	},
}

// seed command - populate the taxonomy
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the built-in taxonomy categories and terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := seed.Run(store); err != nil {
			return err
		}

		fmt.Println("Taxonomy seeded.")
		return nil
	},
}

// serve command - start web server
var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		fmt.Printf("\n🌐 Starting voxarena server on http://localhost:%d\n\n", servePort)
		fmt.Println("Available endpoints:")
		fmt.Printf("  GET  http://localhost:%d/api/debates   - List debates\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/personas  - List personas\n", servePort)
		fmt.Printf("  GET  http://localhost:%d/api/taxonomy  - List taxonomy terms\n", servePort)
		fmt.Println("\nPress Ctrl+C to stop the server")

		return startWebServer(store, servePort)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8184, "Server port")
}

func startWebServer(store storage.Storage, port int) error {
	debates := debate.NewService(store)
	personas := persona.NewService(store, nil, nil)
	tax := taxonomy.NewService(store)

	h := handlers.New(debates, personas, tax, "")

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:    addr,
		Handler: h.Router(),
	}

	// Handle shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down...")
		server.Close()
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
