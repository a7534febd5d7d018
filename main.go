package main

import (
	"fmt"
	"os"

	"fjacquet/toll-expense/cmd/analyze"
	"fjacquet/toll-expense/cmd/batch"
	"fjacquet/toll-expense/cmd/receipt"
	"fjacquet/toll-expense/cmd/root"
	"fjacquet/toll-expense/cmd/total"
	"fjacquet/toll-expense/internal/config"
)

func init() {
	// .env values must be visible before viper reads TOLL_* variables
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(receipt.Cmd)
	root.Cmd.AddCommand(total.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
