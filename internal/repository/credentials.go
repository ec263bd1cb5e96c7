package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoCredentials возвращается, если не задан ни путь к сертификату,
// ни встроенный JSON сервисного аккаунта.
var ErrNoCredentials = errors.New("firebase credentials are not configured")

// LoadCredentials подготавливает JSON сервисного аккаунта из файла certPath
// либо из строки certJSON. Поле private_key нормализуется: литеральные
// последовательности "\n", попавшие в ключ при передаче через окружение
// или хранилище секретов, заменяются настоящими переводами строк.
func LoadCredentials(certPath, certJSON string) ([]byte, error) {
	var raw []byte

	switch {
	case certPath != "":
		data, err := os.ReadFile(certPath)
		if err != nil {
			return nil, fmt.Errorf("read certificate file: %w", err)
		}
		raw = data
	case certJSON != "":
		raw = []byte(certJSON)
	default:
		return nil, ErrNoCredentials
	}

	var cert map[string]any
	if err := json.Unmarshal(raw, &cert); err != nil {
		return nil, fmt.Errorf("parse certificate JSON: %w", err)
	}

	key, ok := cert["private_key"].(string)
	if !ok || key == "" {
		return nil, errors.New("certificate JSON has no private_key field")
	}
	cert["private_key"] = strings.ReplaceAll(key, `\n`, "\n")

	normalized, err := json.Marshal(cert)
	if err != nil {
		return nil, fmt.Errorf("marshal certificate JSON: %w", err)
	}

	return normalized, nil
}
