// Command confprune inspects YAML configuration files and removes keys that a
// program no longer declares.
//
//	confprune keys --file config.yml
//	confprune get --file config.yml section.active_in_section
//	confprune prune --file config.yml --keep active --keep map --dry-run
package main

import (
	"fmt"
	"os"
)

func main() {
	err := newRootCommand(os.Stdout, os.Stderr).Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
