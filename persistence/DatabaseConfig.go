package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_URL: mysql://root:root@(127.0.0.1:3306)/recruitbase?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.New("environment variable DATABASE_URL is empty")
	}
	idx := strings.Index(url, "://")
	if idx <= 0 || idx == len(url)-3 {
		return nil, errors.New("invalid DATABASE_URL: '" + url + "'")
	}
	return &DatabaseConfig{DriverType: url[0:idx], DriverArgs: url[idx+3:]}, nil
}

// PrepareMysqlDatabase create the database if not exist yet
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.Index(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql driver args: '" + driverArgs + "'")
	}
	databaseName := driverArgs[idx+1:]
	if argsIdx := strings.Index(databaseName, "?"); argsIdx >= 0 {
		databaseName = databaseName[0:argsIdx]
	}
	if databaseName == "" {
		return errors.New("database name is empty in driver args: '" + driverArgs + "'")
	}

	db, err := sql.Open("mysql", driverArgs[0:idx+1])
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName +
		" DEFAULT CHARACTER SET utf8mb4 DEFAULT COLLATE utf8mb4_unicode_ci")
	return err
}
