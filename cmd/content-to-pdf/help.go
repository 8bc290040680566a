package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: content-to-pdf <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  course    Generate a course PDF")
	fmt.Fprintln(w, "  quiz      Generate a quiz PDF")
	fmt.Fprintln(w, "  guide     Generate a teacher guide PDF")
	fmt.Fprintln(w, "  serve     Start the HTTP service")
	fmt.Fprintln(w, "  version   Show version information")
	fmt.Fprintln(w, "  help      Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'content-to-pdf help <command>' for details.")
}

func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case "course", "quiz", "guide":
		fmt.Fprintf(w, "Usage: content-to-pdf %s --code CODE --lang LANG[,LANG...] [flags]\n", cmd)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Source:")
		fmt.Fprintln(w, "      --bec-path string        content repository checkout")
		fmt.Fprintln(w, "      --blms-path string       platform locales directory")
		fmt.Fprintln(w, "      --guides-path string     teacher guides directory")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Document:")
		fmt.Fprintln(w, "      --code string            course code (e.g. btc101)")
		fmt.Fprintln(w, "      --lang string            language codes, comma-separated (e.g. en,fr)")
		fmt.Fprintln(w, "  -o, --output string          output directory")
		switch cmd {
		case "course":
			fmt.Fprintln(w, "      --full                   keep links as resource cards")
		case "quiz":
			fmt.Fprintln(w, "  -n, --count int              random subset of questions (0 = all)")
			fmt.Fprintln(w, "      --answers                append the answer key")
		}
		fmt.Fprintln(w, "      --html                   also write the HTML document")
		fmt.Fprintln(w, "      --presenter-name string  presenter shown on the cover")
		fmt.Fprintln(w, "      --presenter-logo string  presenter logo image path")
	case "serve":
		fmt.Fprintln(w, "Usage: content-to-pdf serve [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Server:")
		fmt.Fprintln(w, "  -p, --port int               listen port")
		fmt.Fprintln(w, "      --redis-url string       Redis cache URL (empty = in-memory)")
		fmt.Fprintln(w, "      --cors-origin string     allowed browser origin")
		fmt.Fprintln(w, "      --guides-path string     teacher guides directory")
	default:
		printUsage(w)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config string          config file name or path")
	fmt.Fprintln(w, "  -v, --verbose                enable debug logging")
	fmt.Fprintln(w, "  -w, --workers int            parallel browser renderers (0 = auto)")
	fmt.Fprintln(w, "      --timeout string         PDF render timeout (e.g. 90s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GITHUB_TOKEN                 token for the GitHub API")
}

// runHelp prints general or per-command help.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	printCommandUsage(env.Stdout, args[0])
}
