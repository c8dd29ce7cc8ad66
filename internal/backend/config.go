package backend

import (
	"errors"
	"fmt"

	"contas/internal/config"
	gsheet "contas/internal/sheets/google"
)

// Config holds configuration for backend creation
type Config struct {
	Store StoreType

	// SQLite specific
	SQLiteDBName string

	// AMQP, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report export, optional
	Sheets *gsheet.Config
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	storeType := StoreType(appConfig.DataBackend)
	if !storeType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %v)", appConfig.DataBackend, GetStoreTypes())
	}

	cfg := Config{
		Store:        storeType,
		SQLiteDBName: appConfig.SQLiteDBName,
	}
	if appConfig.AMQPEnabled() {
		cfg.AMQPURL = appConfig.AMQPURL
		cfg.AMQPExchange = appConfig.AMQPExchange
		cfg.AMQPQueue = appConfig.AMQPQueue
	}
	if appConfig.SheetsEnabled() {
		cfg.Sheets = &gsheet.Config{
			SpreadsheetID:   appConfig.GoogleSpreadsheetID,
			SheetName:       appConfig.GoogleSheetName,
			CredentialsJSON: appConfig.GoogleServiceAccountJSON,
			CredentialsFile: appConfig.GoogleServiceAccountFile,
		}
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Store.IsValid() {
		return fmt.Errorf("invalid backend type: %s (valid: %v)", c.Store, GetStoreTypes())
	}

	if c.Store == SQLiteStore && c.SQLiteDBName == "" {
		return errors.New("SQLite database name is required for sqlite backend")
	}

	if c.AMQPURL != "" && (c.AMQPExchange == "" || c.AMQPQueue == "") {
		return errors.New("AMQP exchange and queue are required when AMQP URL is set")
	}

	if c.Sheets != nil && c.Sheets.SpreadsheetID == "" {
		return errors.New("Google Spreadsheet ID is required for sheets export")
	}

	return nil
}

// GetStoreTypes returns all valid store types
func GetStoreTypes() []StoreType {
	return []StoreType{MemoryStore, SQLiteStore}
}
