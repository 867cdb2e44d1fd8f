package main

import "github.com/ardanlabs/radcoin/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
