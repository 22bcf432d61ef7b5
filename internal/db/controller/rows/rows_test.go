package rows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castboard/castboard/internal/db/dbtest"
	"github.com/castboard/castboard/internal/db/models"
)

func TestUpdate(t *testing.T) {
	db := dbtest.Open(t)

	c := &models.Contact{Text: "hello"}
	require.NoError(t, db.Create(c).Error)

	c.Text = "changed"
	found, err := Update(db, c, c.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Update(db, c, c.ID)
	require.NoError(t, err)
	assert.True(t, found, "unchanged values still count as found")

	var stored models.Contact
	require.NoError(t, db.First(&stored, "id = ?", c.ID).Error)
	assert.Equal(t, "changed", stored.Text)
	assert.Equal(t, c.Seq, stored.Seq)

	ghost := &models.Contact{Text: "ghost"}
	ghost.ID = "0b0e7ad8-6d3c-4a4f-9bb2-7e1c1f4d2a10"

	found, err = Update(db, ghost, ghost.ID)
	require.NoError(t, err)
	assert.False(t, found)

	var n int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&n).Error)
	assert.Equal(t, int64(1), n, "update never inserts")
}
