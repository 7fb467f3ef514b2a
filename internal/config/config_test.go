package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{"TELEGRAM_TOKEN": "token"},
			want: Config{
				TelegramToken: "token",
				DataFile:      "expense_data.json",
				Port:          "3000",
				BackupDir:     "backups",
			},
		},
		{
			name: "explicit values",
			env: map[string]string{
				"TELEGRAM_TOKEN":        "token",
				"DATA_FILE":             "/data/doc.json",
				"PORT":                  "8080",
				"BACKUP_DIR":            "/data/backups",
				"REPORT_INTERVAL_HOURS": "6",
				"BACKUP_INTERVAL_HOURS": "12",
			},
			want: Config{
				TelegramToken:  "token",
				DataFile:       "/data/doc.json",
				Port:           "8080",
				BackupDir:      "/data/backups",
				ReportInterval: 6 * time.Hour,
				BackupInterval: 12 * time.Hour,
			},
		},
		{
			name: "invalid interval disables the job",
			env: map[string]string{
				"TELEGRAM_TOKEN":        "token",
				"REPORT_INTERVAL_HOURS": "soon",
			},
			want: Config{
				TelegramToken: "token",
				DataFile:      "expense_data.json",
				Port:          "3000",
				BackupDir:     "backups",
			},
		},
		{
			name:    "missing token",
			env:     map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"TELEGRAM_TOKEN", "DATA_FILE", "PORT", "BACKUP_DIR", "REPORT_INTERVAL_HOURS", "BACKUP_INTERVAL_HOURS"} {
				t.Setenv(key, tt.env[key])
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
