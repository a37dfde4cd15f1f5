package coremain

import (
	"github.com/pmkol/linkseq/mlog"
	"github.com/pmkol/linkseq/pkg/script"
	"github.com/pmkol/linkseq/pkg/workspace"
)

type Config struct {
	Log       mlog.LogConfig   `yaml:"log"`
	Include   []string         `yaml:"include"`
	Workspace workspace.Config `yaml:"workspace"`
	API       APIConfig        `yaml:"api"`
	Steps     []script.Step    `yaml:"steps"`
}

type APIConfig struct {
	HTTP string `yaml:"http"`
}
