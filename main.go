package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/proposalkit/rfp-assistant/agent/contract"
	"github.com/proposalkit/rfp-assistant/app"
	_ "github.com/proposalkit/rfp-assistant/pkg/logger/autoload"
)

func main() {
	input := flag.String("input", "", "query to process")
	file := flag.String("file", "", "path to an RFP document (pdf, docx, or plain text)")
	session := flag.String("session", "", "session id, generated when empty")
	doExport := flag.Bool("export", false, "assemble the proposal after processing")
	format := flag.String("format", "docx", "export format: docx or pdf")
	flag.Parse()

	if *input == "" && !*doExport {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -input, -export, or both")
		flag.Usage()
		os.Exit(2)
	}

	exportFormat, ok := contractx.ParseExportFormat(*format)
	if !ok {
		fmt.Fprintf(os.Stderr, "unsupported format %q: use docx or pdf\n", *format)
		os.Exit(2)
	}

	ctx := context.Background()

	svc, cleanup, err := app.Build(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn().Err(err).Msg("cleanup failed")
		}
	}()

	sessionID := *session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if *input != "" {
		turn, err := svc.Process(ctx, sessionID, *input, *file)
		if err != nil {
			log.Fatal().Err(err).Msg("processing failed")
		}
		printTurn(sessionID, turn)
	}

	if *doExport {
		path, err := svc.Assemble(ctx, sessionID, exportFormat)
		if err != nil {
			log.Fatal().Err(err).Msg("assembly failed")
		}
		fmt.Printf("proposal written to %s\n", path)
	}
}

func printTurn(sessionID string, turn contractx.Turn) {
	fmt.Printf("session: %s\n", sessionID)
	fmt.Printf("agent:   %s\n\n", turn.Agent.SectionTitle())

	switch turn.Result.Kind {
	case contractx.ResultDiagram, contractx.ResultTable:
		pretty, err := json.MarshalIndent(turn.Result, "", "  ")
		if err != nil {
			fmt.Println(turn.Result.Text)
		} else {
			fmt.Println(string(pretty))
		}
	default:
		fmt.Println(turn.Result.Text)
	}

	for _, warning := range turn.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
}
