package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tokenops/mintgate/env"
	"github.com/tokenops/mintgate/mint"
	"github.com/tokenops/mintgate/solana"
)

const airdropLamports = 1_000_000_000 // 1 SOL

func main() {
	_ = viper.BindEnv("environment", "MINTGATE_ENVIRONMENT")
	_ = viper.BindEnv("solana_endpoint", "SOLANA_ENDPOINT")
	_ = viper.BindEnv("authority_keypair", "AUTHORITY_KEYPAIR")
	_ = viper.BindEnv("mint_keypair_out", "MINT_KEYPAIR_OUT")
	_ = viper.BindEnv("decimals", "DECIMALS")
	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("environment", string(env.EnvironmentDevnet))
	viper.SetDefault("decimals", 9)
	viper.SetDefault("log_level", "info")

	log := logrus.StandardLogger().WithField("type", "cmd/create-mint")

	if level, err := logrus.ParseLevel(viper.GetString("log_level")); err == nil {
		logrus.SetLevel(level)
	}

	environment := env.Environment(viper.GetString("environment"))
	if !environment.IsValid() {
		log.WithField("environment", environment).Error(env.ErrBadEnvironmentVariableSet)
		os.Exit(1)
	}

	endpoint := viper.GetString("solana_endpoint")
	if endpoint == "" {
		endpoint = environment.RPCEndpoint()
	}

	decimals := viper.GetInt("decimals")
	if decimals < 0 || decimals > 255 {
		log.WithField("decimals", decimals).Error("decimals out of range")
		os.Exit(1)
	}

	keypairPath := viper.GetString("authority_keypair")
	if keypairPath == "" {
		log.Error("AUTHORITY_KEYPAIR must be set")
		os.Exit(1)
	}

	// The authority funds the mint account itself; the initializer only
	// accepts requests whose authority and payer identities match.
	authority, err := loadKeypair(keypairPath)
	if err != nil {
		log.WithError(err).Error("failed to load authority keypair")
		os.Exit(1)
	}

	_, mintKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.WithError(err).Error("failed to generate mint keypair")
		os.Exit(1)
	}

	client := solana.New(endpoint)
	authorityPub := authority.Public().(ed25519.PublicKey)

	if environment == env.EnvironmentDevnet || environment == env.EnvironmentLocalnet {
		if err := fundIfEmpty(client, authorityPub); err != nil {
			log.WithError(err).Error("failed to fund authority")
			os.Exit(1)
		}
	}

	initializer := mint.NewInitializer(mint.NewSolanaCollaborator(client, solana.CommitmentSingle))

	req := mint.InitializeRequest{
		Authority: authority,
		Payer:     authority,
		Mint:      mintKey,
		Decimals:  uint8(decimals),
	}
	if err := initializer.Initialize(req); err != nil {
		log.WithError(err).Error("failed to initialize mint")
		os.Exit(1)
	}

	mintPub := mintKey.Public().(ed25519.PublicKey)

	if out := viper.GetString("mint_keypair_out"); out != "" {
		if err := saveKeypair(out, mintKey); err != nil {
			log.WithError(err).Error("failed to save mint keypair")
			os.Exit(1)
		}
		log.WithField("path", out).Info("saved mint keypair")
	}

	log.WithFields(logrus.Fields{
		"mint":      base58.Encode(mintPub),
		"authority": base58.Encode(authorityPub),
		"decimals":  decimals,
	}).Info("mint initialized")
}

func fundIfEmpty(client solana.Client, account ed25519.PublicKey) error {
	balance, err := client.GetBalance(account)
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	if balance > 0 {
		return nil
	}

	sig, err := client.RequestAirdrop(account, airdropLamports, solana.CommitmentSingle)
	if err != nil {
		return errors.Wrap(err, "failed to request airdrop")
	}

	status, err := client.GetSignatureStatus(sig, solana.CommitmentSingle)
	if err != nil {
		return errors.Wrap(err, "failed to confirm airdrop")
	}
	if status != nil && status.ErrorResult != nil {
		return status.ErrorResult
	}

	return nil
}

// loadKeypair reads a Solana CLI compatible keypair file: a JSON array of
// the 64 secret key bytes.
func loadKeypair(path string) (ed25519.PrivateKey, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keypair file")
	}

	var raw []int
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "invalid keypair file")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid keypair size: %d", len(raw))
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range raw {
		if v < 0 || v > 255 {
			return nil, errors.Errorf("invalid byte value in keypair file: %d", v)
		}
		key[i] = byte(v)
	}

	return key, nil
}

func saveKeypair(path string, key ed25519.PrivateKey) error {
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "failed to marshal keypair")
	}

	return ioutil.WriteFile(path, b, 0600)
}
