package main

import "github.com/conscoin/blockchain/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
