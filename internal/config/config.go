package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/natevvv/grid-astar/pkg/grid"
	"github.com/natevvv/grid-astar/pkg/search"
)

// Config of the binaries. Zero values in a file keep the defaults.
type Config struct {
	Address    string `yaml:"address"`
	Maze       string `yaml:"maze"`
	Border     int    `yaml:"border"`
	Diagonal   bool   `yaml:"diagonal"`
	Policy     string `yaml:"policy"`
	DebugLevel int    `yaml:"debugLevel"`
	Seed       int64  `yaml:"seed"`
	Dev        bool   `yaml:"development"`
}

func Default() Config {
	return Config{
		Address: ":8081",
		Maze:    "mazes/demo.txt",
		Border:  1,
		Policy:  search.PolicyOverwrite.String(),
	}
}

// Load reads a yaml file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	return Decode(file)
}

func Decode(r io.Reader) (Config, error) {
	c := Default()
	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// BindFlags registers one flag per setting, defaulting to the current values of c.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Address, "address", c.Address, "listen address of the http server")
	fs.StringVar(&c.Maze, "maze", c.Maze, "maze file")
	fs.IntVar(&c.Border, "border", c.Border, "reserved cells on every side of the maze")
	fs.BoolVar(&c.Diagonal, "diagonal", c.Diagonal, "allow diagonal moves")
	fs.StringVar(&c.Policy, "policy", c.Policy, "update policy for rediscovered nodes (overwrite, relax)")
	fs.IntVar(&c.DebugLevel, "debug", c.DebugLevel, "search trace level (0: off, 1: expansions, 2: neighbors)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random start and goal cells")
	fs.BoolVar(&c.Dev, "dev", c.Dev, "development logging")
}

// FromArgs loads the file given by -config and applies the other flags on top of it.
// extra registers the flags of the calling binary, it is called once per parse pass.
func FromArgs(name string, args []string, extra func(fs *flag.FlagSet)) (Config, error) {
	parse := func(c *Config, output io.Writer) (string, error) {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(output)
		path := fs.String("config", "", "yaml config file")
		c.BindFlags(fs)
		if extra != nil {
			extra(fs)
		}
		err := fs.Parse(args)
		return *path, err
	}

	// first pass only finds the config file
	scratch := Default()
	path, err := parse(&scratch, io.Discard)
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		_, err = parse(&scratch, os.Stderr)
		return Config{}, err
	}

	c, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if _, err := parse(&c, os.Stderr); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Border < 0 {
		return fmt.Errorf("border must not be negative, got %v", c.Border)
	}
	if c.DebugLevel < 0 {
		return fmt.Errorf("debugLevel must not be negative, got %v", c.DebugLevel)
	}
	if _, err := c.UpdatePolicy(); err != nil {
		return err
	}
	return nil
}

func (c Config) UpdatePolicy() (search.UpdatePolicy, error) {
	return search.ParsePolicy(c.Policy)
}

// GridOptions translates the maze related settings.
func (c Config) GridOptions() []grid.Option {
	return []grid.Option{grid.WithBorder(c.Border), grid.WithDiagonals(c.Diagonal)}
}

func (c Config) Logger() (*zap.Logger, error) {
	if c.Dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
