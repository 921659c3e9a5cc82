package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	assert.Empty(t, PkgAlias(""))
	assert.Equal(t, "legacy", PkgAlias("example.com/billing/legacy"))
	assert.Equal(t, "time", PkgAlias("time"))
}

func TestExportedName(t *testing.T) {
	assert.Empty(t, ExportedName(""))
	assert.Equal(t, "Order", ExportedName("order"))
	assert.Equal(t, "LegacyHeader", ExportedName("legacyHeader"))
	assert.Equal(t, "Élan", ExportedName("élan"))
}
