package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"sales-agent/internal/app"
	"sales-agent/internal/export"
)

// Run starts the interactive chat loop. It reads lines from reader,
// dispatches slash commands deterministically, and routes everything else
// through the AI extraction + query pipeline.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	info, err := svc.DatasetInfo(ctx)
	if err != nil {
		fmt.Printf("Failed to load dataset info: %v\n", err)
		return
	}

	fmt.Println("Sales Insight Agent")
	fmt.Printf("Dataset: %s records, %s\n",
		groupedInt(info.Summary.TotalRows), info.Summary.YearRange)
	fmt.Println("Ask a question about sales data, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	debug := false
	var last *app.AskResult

	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			tokens := strings.Fields(strings.TrimPrefix(input, "/"))
			if len(tokens) == 0 {
				continue
			}
			cmd := strings.ToLower(tokens[0])
			args := tokens[1:]

			switch cmd {
			case "quit", "exit", "q":
				return

			case "help":
				printHelp()

			case "info":
				info, err := svc.DatasetInfo(ctx)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				printInfo(info)

			case "examples":
				printExamples(svc.ExampleQueries())

			case "reload":
				if err := svc.Reload(ctx); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Println("Data reloaded.")

			case "debug":
				debug = !debug
				fmt.Printf("Debug output: %v\n", debug)

			case "export":
				if last == nil || last.Result == nil || last.Result.Export == nil {
					fmt.Println("Nothing to export yet — run a query first.")
					continue
				}
				path := export.Filename(last.Question, time.Now())
				if len(args) > 0 {
					path = args[0]
				}
				data, err := export.Encode(last.Result.Export)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				fmt.Printf("Exported %d rows to %s\n", len(last.Result.Export.Rows), path)

			default:
				fmt.Printf("Unknown command: /%s (try /help)\n", cmd)
			}
			continue
		}

		res, err := svc.Ask(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		last = res
		if debug {
			fmt.Printf("[params] %s\n", res.Params.Describe())
		}
		printAskResult(res)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  /info            dataset summary
  /examples        example questions
  /reload          reload the dataset snapshot
  /export [file]   write the last result's full table to CSV
  /debug           toggle extracted-parameter output
  /quit            exit

Anything else is treated as a natural-language question.`)
}
