package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gachaserver/internal/flagx"
	"github.com/dmitrijs2005/gachaserver/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields let a
// file override only what it mentions.
type JsonConfig struct {
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                  *string         `json:"metrics_addr"`
	LogLevel                     *string         `json:"log_level"`
	Storage                      *string         `json:"storage"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	AccessTokenSecret            *string         `json:"access_token_secret"`
	RefreshTokenSecret           *string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	VerifyAccessTokens           *bool           `json:"verify_access_tokens"`
	HashIterations               *int            `json:"hash_iterations"`
	HashKeyLength                *int            `json:"hash_key_length"`
	SaltSize                     *int            `json:"salt_size"`
	BoosterCooldown              *timex.Duration `json:"booster_cooldown"`
	MaxBoosterSlots              *int            `json:"max_booster_slots"`
	InitialBoosterSlots          *int            `json:"initial_booster_slots"`
	StartingCoins                *int            `json:"starting_coins"`
	CardSellValue                *int            `json:"card_sell_value"`
	DefaultBoosterPrice          *int            `json:"default_booster_price"`
}

// parseJson overlays values from the file named by -c/-config (or
// GACHA_CONFIG). No file configured is not an error.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.VerifyAccessTokens != nil {
		config.VerifyAccessTokens = *c.VerifyAccessTokens
	}
	setInt(&config.HashIterations, c.HashIterations)
	setInt(&config.HashKeyLength, c.HashKeyLength)
	setInt(&config.SaltSize, c.SaltSize)
	if c.BoosterCooldown != nil {
		config.BoosterCooldown = c.BoosterCooldown.Duration
	}
	setInt(&config.MaxBoosterSlots, c.MaxBoosterSlots)
	setInt(&config.InitialBoosterSlots, c.InitialBoosterSlots)
	setInt(&config.StartingCoins, c.StartingCoins)
	setInt(&config.CardSellValue, c.CardSellValue)
	setInt(&config.DefaultBoosterPrice, c.DefaultBoosterPrice)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
