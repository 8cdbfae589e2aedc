package main

import "github.com/migmedia/zfs-snappers/internal/cli"

func main() {
	cli.Execute()
}
