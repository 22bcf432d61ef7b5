package singleton

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/castboard/castboard/internal/db/dbtest"
	"github.com/castboard/castboard/internal/db/models"
)

func ptr[T any](v T) *T { return &v }

func TestReplaceKeepsOneRow(t *testing.T) {
	db := dbtest.Open(t)

	_, err := Current[models.Contact](db)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Replace(db, &models.Contact{Text: "first"}))
	require.NoError(t, Replace(db, &models.Contact{Text: "second"}))

	var n int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := Current[models.Contact](db)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)
}

func TestReplaceConcurrent(t *testing.T) {
	db := dbtest.Open(t)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			assert.NoError(t, Replace(db, &models.Platform{Text: "p"}))
		}()
	}

	wg.Wait()

	var n int64
	require.NoError(t, db.Model(&models.Platform{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)

	font := &models.Font{FontColor: "#000", FontSize: 12, FontFamily: "Inter"}
	require.NoError(t, Replace(db, font))

	testCases := []struct {
		name     string
		patch    FontPatch
		expected models.Font
	}{
		{
			name:     "color only",
			patch:    FontPatch{FontColor: ptr("#fff")},
			expected: models.Font{FontColor: "#fff", FontSize: 12, FontFamily: "Inter"},
		},
		{
			name:     "zero size and empty family are ignored",
			patch:    FontPatch{FontSize: ptr(0.0), FontFamily: ptr("")},
			expected: models.Font{FontColor: "#fff", FontSize: 12, FontFamily: "Inter"},
		},
		{
			name:     "size and family",
			patch:    FontPatch{FontSize: ptr(16.5), FontFamily: ptr("Mono")},
			expected: models.Font{FontColor: "#fff", FontSize: 16.5, FontFamily: "Mono"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Update[models.Font](db, font.ID, tc.patch)
			require.NoError(t, err)

			stored, err := Get[models.Font](db, font.ID)
			require.NoError(t, err)

			for _, f := range []*models.Font{got, stored} {
				assert.Equal(t, tc.expected.FontColor, f.FontColor)
				assert.Equal(t, tc.expected.FontSize, f.FontSize)
				assert.Equal(t, tc.expected.FontFamily, f.FontFamily)
			}
		})
	}

	_, err := Update[models.Font](db, "0b0e7ad8-6d3c-4a4f-9bb2-7e1c1f4d2a10", FontPatch{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRacingReplace(t *testing.T) {
	db := dbtest.Open(t)

	first := &models.Contact{Text: "v1"}
	require.NoError(t, Replace(db, first))

	dbtest.BeforeUpdate(t, db, "contacts", func(tx *gorm.DB) {
		require.NoError(t, tx.Where("1 = 1").Delete(&models.Contact{}).Error)
		require.NoError(t, tx.Create(&models.Contact{Text: "v2"}).Error)
	})

	_, err := Update[models.Contact](db, first.ID, ContactPatch{Text: ptr("edited")})
	require.ErrorIs(t, err, ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := Current[models.Contact](db)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Text)
}

func TestDelete(t *testing.T) {
	db := dbtest.Open(t)

	pl := &models.Platform{Text: "t", Image: "/uploads/platform/a.png"}
	require.NoError(t, Replace(db, pl))

	deleted, err := Delete[models.Platform](db, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/platform/a.png", deleted.Image)

	_, err = Delete[models.Platform](db, pl.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = Delete[models.Platform](db, "malformed")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatches(t *testing.T) {
	pl := models.Platform{Text: "a", Image: "i"}
	PlatformPatch{Image: ptr("j")}.Apply(&pl)
	assert.Equal(t, models.Platform{Text: "a", Image: "j"}, pl)

	c := models.Contact{Text: "x"}
	ContactPatch{Text: ptr("")}.Apply(&c)
	assert.Equal(t, "x", c.Text)
}
