package main

import "github.com/frahmantamala/interior-ledger/cmd"

func main() {
	cmd.Execute()
}
