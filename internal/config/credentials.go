package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Credentials holds the secrets and platform identifiers the bot needs.
// They are read from the environment, with a .env file loaded first when
// present. Roblox and Bloxlink values are optional: the corresponding
// commands report a configuration error instead of failing at startup.
type Credentials struct {
	DiscordToken string `env:"DISCORD_TOKEN,required,notEmpty"`
	DiscordAppID string `env:"DISCORD_APP_ID,required,notEmpty"`
	GuildID      string `env:"GUILD_ID,required,notEmpty"`

	RobloxAPIKey     string `env:"ROBLOX_API_KEY"`
	RobloxUniverseID string `env:"ROBLOX_UNIVERSE_ID"`
	BloxlinkKey      string `env:"BLOXLINK_KEY"`

	ModRoleID       string `env:"MOD_ROLE_ID"`
	DeveloperRoleID string `env:"DEVELOPER_ROLE_ID"`

	LeaderboardChannelID string `env:"LEADERBOARD_CHANNEL_ID"`
	LeaderboardMessageID string `env:"LEADERBOARD_MESSAGE_ID"`

	WebAddr string `env:"WEB_ADDR" envDefault:":8080"`
}

// LoadCredentials reads credentials from the environment. A .env file in
// the working directory is merged in first; a missing .env is not an
// error.
func LoadCredentials() (Credentials, error) {
	_ = godotenv.Load()

	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return creds, fmt.Errorf("config: parse environment: %w", err)
	}
	return creds, nil
}

// RobloxConfigured reports whether the Roblox Open Cloud credentials are
// present.
func (c Credentials) RobloxConfigured() bool {
	return c.RobloxAPIKey != "" && c.RobloxUniverseID != ""
}

// BloxlinkConfigured reports whether the Bloxlink API key is present.
func (c Credentials) BloxlinkConfigured() bool {
	return c.BloxlinkKey != ""
}
