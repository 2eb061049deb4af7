package app

import (
	"errors"
	"flag"
)

// Config holds the report tool options, flag-driven.
type Config struct {
	CSVPath   string
	DBPath    string
	MissionID int64

	OutputFile string
	PDF        bool
	Chart      bool
	FontPath   string
	Verbose    bool
}

func NewConfig() *Config {
	return &Config{
		MissionID:  1,
		OutputFile: "report",
	}
}

func NewConfigFromCLI() (*Config, error) {
	c := NewConfig()

	flag.StringVar(&c.CSVPath, "csv", "", "Path to a mission CSV export")
	flag.StringVar(&c.DBPath, "db", "", "Path to a mission database file")
	flag.Int64Var(&c.MissionID, "m", 1, "Mission ID within the database")
	flag.StringVar(&c.OutputFile, "o", "report", "Base path for generated files (without extension)")
	flag.BoolVar(&c.PDF, "pdf", false, "Write a PDF report")
	flag.BoolVar(&c.Chart, "chart", false, "Write a flight profile chart PNG")
	flag.StringVar(&c.FontPath, "font", "", "TTF font for chart labels (built-in bitmap face when unset)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	flag.Parse()

	var err error
	switch {
	case c.CSVPath == "" && c.DBPath == "":
		err = errors.New("either a CSV export (-csv) or a mission database (-db) is required")
	case c.CSVPath != "" && c.DBPath != "":
		err = errors.New("-csv and -db are mutually exclusive")
	case c.DBPath != "" && c.MissionID <= 0:
		err = errors.New("mission id is required")
	case c.OutputFile == "" && (c.PDF || c.Chart):
		err = errors.New("output file is required")
	}

	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}
