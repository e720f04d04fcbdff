package main

import "github.com/sqltrace/sqltrace/internal/cli"

func main() {
	cli.Execute()
}
