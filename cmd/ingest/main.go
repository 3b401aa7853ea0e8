package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chanwatch/chanwatch/pkg/analysis"
	"github.com/chanwatch/chanwatch/pkg/ingestion"
	"github.com/chanwatch/chanwatch/pkg/models"
)

func main() {
	// Define command-line flags
	var (
		slackPath  = flag.String("slack", "", "Path to a Slack-shaped (or canonical) CSV export")
		redditPath = flag.String("reddit", "", "Path to a Reddit JSON-lines export")
		outputPath = flag.String("output", "merged_data.csv", "Path for the canonical output table")
		workspace  = flag.String("workspace", "slack", "Workspace tag for CSV tables without a workspace column")
		enrich     = flag.Bool("enrich", false, "Run the derivation passes and print signal counts")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if *help || (*slackPath == "" && *redditPath == "") {
		printUsage()
		os.Exit(0)
	}

	startTime := time.Now()
	var tables [][]models.Message

	if *slackPath != "" {
		parser := ingestion.NewCSVParser(ingestion.ParserConfig{
			DefaultWorkspace: *workspace,
			SkipErrors:       true,
		})
		messages, err := parser.ParseFile(*slackPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to parse %s: %v\n", *slackPath, err)
			os.Exit(1)
		}
		total, parsed, dropped, errs := parser.GetStats()
		fmt.Printf("CSV %s: %d rows, %d parsed, %d dropped, %d errors\n", *slackPath, total, parsed, dropped, errs)
		tables = append(tables, messages)
	}

	if *redditPath != "" {
		converter := ingestion.NewJSONLConverter()
		messages, err := converter.ConvertFile(*redditPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to convert %s: %v\n", *redditPath, err)
			os.Exit(1)
		}
		total, parsed, dropped := converter.GetStats()
		fmt.Printf("JSONL %s: %d records, %d converted, %d dropped\n", *redditPath, total, parsed, dropped)
		tables = append(tables, messages)
	}

	merged := ingestion.Merge(tables...)

	if *enrich {
		enriched := analysis.NewEnricher().Enrich(merged)
		printSignalCounts(enriched)
		merged = enriched
	}

	if err := ingestion.WriteCSVFile(*outputPath, merged); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Println("\n=== Ingestion Complete ===")
	fmt.Printf("Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Total messages: %d\n", len(merged))
	fmt.Printf("Output: %s\n", *outputPath)
}

// printSignalCounts summarizes the derived columns
func printSignalCounts(messages []models.Message) {
	engagement := make(map[string]int)
	questions := 0
	unanswered := 0
	for _, msg := range messages {
		engagement[msg.EngagementLabel]++
		if msg.IsQuestion {
			questions++
		}
		if msg.IsUnanswered {
			unanswered++
		}
	}

	fmt.Println("\n=== Derived Signals ===")
	for _, label := range []string{models.EngagementLow, models.EngagementMedium, models.EngagementHigh} {
		fmt.Printf("%s: %d\n", label, engagement[label])
	}
	fmt.Printf("Questions: %d\n", questions)
	fmt.Printf("Unanswered questions: %d\n", unanswered)
}

func printUsage() {
	fmt.Println("chanwatch data ingestion tool")
	fmt.Println()
	fmt.Println("Converts Slack-shaped CSV exports and Reddit JSON-lines exports into")
	fmt.Println("one canonical table, sorted by timestamp ascending.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ingest -slack messages.csv -reddit posts.jsonl -output merged_data.csv")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
