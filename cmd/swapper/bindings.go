package swapper

import (
	"errors"
	"fmt"
	"io"

	"github.com/filbar/swapper/layout"
	"github.com/filbar/swapper/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	errNoBindingName    = errors.New("binding has no name")
	errDuplicateBinding = errors.New("duplicate binding name")
)

// bindingConfig is one [[bindings]] table of the config file.
type bindingConfig struct {
	Name       string `mapstructure:"name"`
	Modifier   string `mapstructure:"modifier"`
	Trigger    string `mapstructure:"trigger"`
	Activation string `mapstructure:"activation"`
}

func (c bindingConfig) resolve(reg *layout.Registry) (model.Binding, error) {
	if c.Name == "" {
		return model.Binding{}, errNoBindingName
	}

	b := model.Binding{Name: c.Name}

	fields := []struct {
		value string
		dest  *model.Keycode
		what  string
	}{
		{c.Modifier, &b.Modifier, "modifier"},
		{c.Trigger, &b.Trigger, "trigger"},
		{c.Activation, &b.Activation, "activation"},
	}

	for _, f := range fields {
		code, err := reg.Parse(f.value)
		if err != nil {
			return model.Binding{}, fmt.Errorf("binding %s: bad %s: %w", c.Name, f.what, err)
		}

		*f.dest = code
	}

	return b, nil
}

type bindingSource string

const (
	sourceConfig   bindingSource = "config"
	sourceKeymap   bindingSource = "keymap"
	sourceDefaults bindingSource = "defaults"
)

// loadBindings picks the bindings to run: the config file's [[bindings]] first, then the
// update_swapper calls of the keymap, then the built-in app and window switchers. The
// keymap is imported whenever given, so config entries can name its custom keycodes.
func loadBindings(reg *layout.Registry, keymapPath string, configured []bindingConfig) ([]model.Binding, bindingSource, error) {
	var fromKeymap []model.Binding

	if keymapPath != "" {
		keymap, err := layout.ImportKeymapFile(keymapPath, reg)
		if err != nil {
			return nil, "", err
		}

		fromKeymap = keymap.Bindings
	}

	var (
		bindings []model.Binding
		source   bindingSource
	)

	switch {
	case len(configured) > 0:
		source = sourceConfig

		for _, c := range configured {
			b, err := c.resolve(reg)
			if err != nil {
				return nil, "", err
			}

			bindings = append(bindings, b)
		}
	case len(fromKeymap) > 0:
		bindings, source = fromKeymap, sourceKeymap
	default:
		bindings, source = layout.DefaultBindings(), sourceDefaults
	}

	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		if seen[b.Name] {
			return nil, "", fmt.Errorf("%w: %s", errDuplicateBinding, b.Name)
		}

		seen[b.Name] = true
	}

	return bindings, source, nil
}

func configuredBindings() ([]bindingConfig, error) {
	var configured []bindingConfig

	if err := viper.UnmarshalKey("bindings", &configured); err != nil {
		return nil, fmt.Errorf("could not read bindings from config: %w", err)
	}

	return configured, nil
}

// effectiveBindings loads bindings from every configured source into a fresh registry.
func effectiveBindings() (*layout.Registry, []model.Binding, bindingSource, error) {
	configured, err := configuredBindings()
	if err != nil {
		return nil, nil, "", err
	}

	reg := layout.NewRegistry()

	bindings, source, err := loadBindings(reg, keymapFile, configured)
	if err != nil {
		return nil, nil, "", err
	}

	return reg, bindings, source, nil
}

func writeBindings(w io.Writer, reg *layout.Registry, bindings []model.Binding, source bindingSource) {
	fmt.Fprintf(w, "bindings from %s, evaluated in this order:\n", source)

	for i, b := range bindings {
		fmt.Fprintf(w, "%d. %-8s %s -> hold %s, tap %s\n",
			i+1, b.Name, reg.Name(b.Activation), reg.Name(b.Modifier), reg.Name(b.Trigger))
	}
}

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Print the bindings swapper would run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, bindings, source, err := effectiveBindings()
		if err != nil {
			return err
		}

		writeBindings(cmd.OutOrStdout(), reg, bindings, source)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(bindingsCmd)
}
