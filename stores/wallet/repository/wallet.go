package repository

import (
	"github.com/x-xyz/marketclient/domain"
	"golang.org/x/xerrors"
)

const (
	ProviderKeystore = "keystore"
	ProviderExternal = "external"
)

// Prompter asks the user at the terminal, console/prompt.Stdin satisfies it
type Prompter interface {
	PromptPassword(prompt string) (string, error)
	PromptConfirm(prompt string) (bool, error)
}

// Lookup returns the connector registered under name
func Lookup(name string, connectors ...domain.WalletConnector) (domain.WalletConnector, error) {
	for _, c := range connectors {
		if c != nil && c.Name() == name {
			return c, nil
		}
	}
	return nil, xerrors.Errorf("unknown wallet provider %q", name)
}
