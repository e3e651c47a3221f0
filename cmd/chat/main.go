package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"medichat/internal/tui"
)

func main() {
	var addr string
	var timeoutSecs int
	flag.StringVar(&addr, "addr", "http://localhost:8080", "Base URL of the medichat server")
	flag.IntVar(&timeoutSecs, "timeout", 120, "Request timeout in seconds")
	flag.Parse()

	client := tui.NewHTTPClient(addr, time.Duration(timeoutSecs)*time.Second)
	if _, err := tea.NewProgram(tui.New(client)).Run(); err != nil {
		log.Fatal(err)
	}
}
