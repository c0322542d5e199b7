package command

import (
	"fmt"
	"net"

	"github.com/pixil98/go-blockshuffle/internal/admin"
	"github.com/pixil98/go-errors"
)

type AdminConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080". Empty disables the API.
	Addr string `json:"addr"`
}

func (c *AdminConfig) validate() error {
	el := errors.NewErrorList()

	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			el.Add(fmt.Errorf("admin addr: %w", err))
		}
	}

	return el.Err()
}

func (c *AdminConfig) enabled() bool {
	return c.Addr != ""
}

func (c *AdminConfig) buildServer(runner admin.GameRunner, results admin.ResultLister) *admin.Server {
	return admin.NewServer(c.Addr, runner, results)
}
