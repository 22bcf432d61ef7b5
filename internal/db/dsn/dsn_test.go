package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/config"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		db   config.DB
		want string
	}{
		{
			name: "explicit dsn wins",
			db:   config.DB{DSN: "postgres://u:p@h/db", GormEngine: "mysql", Host: "ignored"},
			want: "postgres://u:p@h/db",
		},
		{
			name: "postgres default port",
			db:   config.DB{GormEngine: "postgres", Host: "db", User: "cb", Password: "pw", Name: "castboard", Extras: "sslmode=disable"},
			want: "host=db port=5432 user=cb password=pw dbname=castboard sslmode=disable",
		},
		{
			name: "mysql default extras",
			db:   config.DB{GormEngine: "mysql", Host: "db", Port: 3307, User: "cb", Password: "pw", Name: "castboard"},
			want: "cb:pw@tcp(db:3307)/castboard?charset=utf8mb4&parseTime=True&loc=UTC",
		},
		{
			name: "sqlite path",
			db:   config.DB{GormEngine: "sqlite", Path: "/var/lib/castboard.db"},
			want: "/var/lib/castboard.db",
		},
		{
			name: "sqlite with extras",
			db:   config.DB{GormEngine: "sqlite", Path: "cb.db", Extras: "_pragma=foreign_keys(1)"},
			want: "cb.db?_pragma=foreign_keys(1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Create(&config.Config{DB: tt.db}))
		})
	}
}

func TestDialector(t *testing.T) {
	for _, engine := range []string{"postgres", "mysql", "sqlite", "SQLite"} {
		d, err := Dialector(&config.Config{DB: config.DB{GormEngine: engine, Path: ":memory:"}})
		require.NoError(t, err, engine)
		assert.NotNil(t, d)
	}

	_, err := Dialector(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnknownGormEngine)
}
