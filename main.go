package main

import (
	"github.com/pmkol/linkseq/coremain"
	"github.com/pmkol/linkseq/mlog"
)

func main() {
	if err := coremain.Run(); err != nil {
		mlog.S().Fatal(err)
	}
}
