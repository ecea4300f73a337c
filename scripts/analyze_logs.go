package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type LogStats struct {
	TotalLines     int
	TotalErrors    int
	NewAccounts    int
	LoginFailures  int
	OrdersCreated  int
	InvalidAmounts int
	GatewayErrors  int
	Verified       int
	BadSignatures  int
	MissingInfo    int
	LatePayments   int
	Unparsed       int
	ErrorPatterns  map[string]int
	StatusCodes    map[int]int
}

type logLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func newLogStats() *LogStats {
	return &LogStats{ErrorPatterns: make(map[string]int), StatusCodes: make(map[int]int)}
}

func main() {
	dir := flag.String("dir", "./logs", "directory holding app-YYYY-MM-DD.log files")
	date := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze")
	flag.Parse()

	logFile := filepath.Join(*dir, fmt.Sprintf("app-%s.log", *date))
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		os.Exit(1)
	}
	defer file.Close()

	stats := newLogStats()
	if err := analyze(file, stats); err != nil {
		fmt.Printf("Error reading %s: %v\n", logFile, err)
	}
	printReport(os.Stdout, stats)
}

// analyze tallies the JSON lines written by the server logger.
func analyze(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		stats.TotalLines++
		var l logLine
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			stats.Unparsed++
			continue
		}

		if l.Status > 0 {
			stats.StatusCodes[l.Status]++
		}
		if l.Level == "error" {
			stats.TotalErrors++
			stats.ErrorPatterns[l.Message]++
		}

		switch l.Message {
		case "login failed":
			stats.LoginFailures++
		case "user registered", "user registered with google":
			stats.NewAccounts++
		case "order created":
			stats.OrdersCreated++
		case "rejected create-order: invalid amount":
			stats.InvalidAmounts++
		case "create-order failed at gateway":
			stats.GatewayErrors++
		case "payment verified":
			stats.Verified++
		case "verify-payment: invalid signature":
			stats.BadSignatures++
		case "verify-payment: missing payment info":
			stats.MissingInfo++
		case "late payment: valid signature for a booking that is no longer awaiting payment":
			stats.LatePayments++
		}
	}
	return scanner.Err()
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Lines read: %d (unparsed %d)\n", stats.TotalLines, stats.Unparsed)

	fmt.Fprintln(w, "\n1. Authentication Statistics:")
	fmt.Fprintf(w, "   New Accounts: %d\n", stats.NewAccounts)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)

	fmt.Fprintln(w, "\n2. Payments:")
	fmt.Fprintf(w, "   Orders Created: %d\n", stats.OrdersCreated)
	fmt.Fprintf(w, "   Invalid Amounts: %d\n", stats.InvalidAmounts)
	fmt.Fprintf(w, "   Gateway Failures: %d\n", stats.GatewayErrors)
	fmt.Fprintf(w, "   Payments Verified: %d\n", stats.Verified)
	fmt.Fprintf(w, "   Invalid Signatures: %d\n", stats.BadSignatures)
	fmt.Fprintf(w, "   Missing Payment Info: %d\n", stats.MissingInfo)
	fmt.Fprintf(w, "   Late Payments: %d\n", stats.LatePayments)

	fmt.Fprintln(w, "\n3. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	for _, e := range topErrors(stats.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.message, e.count)
	}

	fmt.Fprintln(w, "\n4. Responses by Status:")
	codes := make([]int, 0, len(stats.StatusCodes))
	for code := range stats.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "   %d: %d\n", code, stats.StatusCodes[code])
	}
}

type errorCount struct {
	message string
	count   int
}

func topErrors(errors map[string]int, limit int) []errorCount {
	var errorList []errorCount
	for msg, count := range errors {
		errorList = append(errorList, errorCount{msg, count})
	}

	sort.Slice(errorList, func(i, j int) bool {
		if errorList[i].count != errorList[j].count {
			return errorList[i].count > errorList[j].count
		}
		return errorList[i].message < errorList[j].message
	})
	if len(errorList) > limit {
		errorList = errorList[:limit]
	}
	return errorList
}
