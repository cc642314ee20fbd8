package mint

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var initializeCounterVec = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mintgate",
	Name:      "mint_initialize",
	Help:      "Number of mint initializations, by result",
}, []string{"result"})

func init() {
	if err := registerMetrics(); err != nil {
		logrus.WithError(err).Error("failed to register mint initializer metrics")
	}
}

// InitializeRequest describes a single mint initialization. Possession of
// the private keys is the proof that the caller signs for both identities;
// a transaction built from the request cannot land without both signatures.
type InitializeRequest struct {
	// Authority signs the request, and becomes both the mint and freeze
	// authority of the resulting mint.
	Authority ed25519.PrivateKey
	// Payer signs the request and funds the mint account.
	Payer ed25519.PrivateKey
	// Mint is the freshly allocated account to be initialized.
	Mint ed25519.PrivateKey
	// Decimals is forwarded to the token program unmodified.
	Decimals uint8
}

// Authorize passes only when the initializing authority is also the payer.
//
// Both identities must have been signature-verified by the caller. The
// check prevents a payer from installing a mint authority that did not
// co-sign the creation request.
func Authorize(authority, payer ed25519.PublicKey) error {
	if !bytes.Equal(authority, payer) {
		return ErrUnauthorized
	}

	return nil
}

// Initializer turns freshly allocated accounts into initialized mints,
// gated on the requesting authority also being the payer.
type Initializer struct {
	log          *logrus.Entry
	collaborator Collaborator
}

// NewInitializer returns an initializer that delegates the mint write to
// the provided collaborator.
func NewInitializer(collaborator Collaborator) *Initializer {
	return &Initializer{
		log:          logrus.StandardLogger().WithField("type", "mint/initializer"),
		collaborator: collaborator,
	}
}

// Initialize performs the authorization check, then delegates exactly one
// mint initialization to the collaborator. The mint and freeze authority
// are both set to the request authority.
//
// On failure no account state has changed: an unauthorized request never
// reaches the collaborator, and a failed delegation aborts the enclosing
// transaction. The delegation is never retried, as initialization is not
// idempotent.
func (i *Initializer) Initialize(req InitializeRequest) error {
	authority, ok := req.Authority.Public().(ed25519.PublicKey)
	if !ok {
		return errors.New("invalid authority key")
	}
	payer, ok := req.Payer.Public().(ed25519.PublicKey)
	if !ok {
		return errors.New("invalid payer key")
	}
	mint, ok := req.Mint.Public().(ed25519.PublicKey)
	if !ok {
		return errors.New("invalid mint key")
	}

	if err := Authorize(authority, payer); err != nil {
		initializeCounterVec.WithLabelValues("unauthorized").Inc()
		return err
	}

	accounts := MintAccounts{
		Payer: req.Payer,
		Mint:  req.Mint,
	}
	if err := i.collaborator.InitializeMint(accounts, req.Decimals, authority, authority); err != nil {
		initializeCounterVec.WithLabelValues("failed").Inc()
		return err
	}

	initializeCounterVec.WithLabelValues("ok").Inc()
	i.log.WithFields(logrus.Fields{
		"mint":     base58.Encode(mint),
		"decimals": req.Decimals,
	}).Debug("mint initialized")

	return nil
}

func registerMetrics() error {
	if err := prometheus.Register(initializeCounterVec); err != nil {
		if e, ok := err.(prometheus.AlreadyRegisteredError); ok {
			initializeCounterVec = e.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return errors.Wrap(err, "failed to register mint initialize counter")
		}
	}
	return nil
}
