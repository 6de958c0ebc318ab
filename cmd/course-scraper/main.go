package main

import "github.com/pfrederiksen/course-scraper/internal/cli"

func main() {
	cli.Execute()
}
