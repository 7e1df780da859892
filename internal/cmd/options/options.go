// Package options provides the injectable collaborators of the olicense-exporter commands.
package options

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/olicense/olicense-exporter/internal/config"
	"github.com/olicense/olicense-exporter/internal/contracts"
	"github.com/olicense/olicense-exporter/internal/source"
)

// SourceFactory creates the status source selected by a configuration.
type SourceFactory func(logger hclog.Logger, cfg *config.Config) (contracts.StatusSource, error)

type CmdOption func(*CmdOptions) error

type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer
	SourceFactory     SourceFactory
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		SourceFactory:     source.New,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil || reflect.ValueOf(l).IsNil() {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if i == nil || reflect.ValueOf(i).IsNil() {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

func WithSourceFactory(f SourceFactory) CmdOption {
	return func(o *CmdOptions) error {
		if f == nil {
			return fmt.Errorf("source factory cannot be nil")
		}
		o.SourceFactory = f
		return nil
	}
}
