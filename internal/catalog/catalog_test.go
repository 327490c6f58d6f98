package catalog_test

import (
	"testing"

	"github.com/espressif/idfsize/internal/catalog"
	"github.com/espressif/idfsize/internal/itest"
)

func TestLoadLiteralAddresses(t *testing.T) {
	data := []byte(`
IRAM:
  primary_address: 0x40080000
  length: 0x20000
DRAM:
  primary_address: 0x3FFB0000
  length: 0x2C200
  secondary_address: 0x3FFAE000
`)
	cat, err := catalog.Load(data)
	itest.ExpectSuccess(t, err)
	itest.Equate(t, len(cat), 2)

	iram, ok := cat.ByName("IRAM")
	itest.Equate(t, ok, true)
	itest.Equate(t, iram.PrimaryAddress, uint64(0x40080000))
	itest.Equate(t, iram.Length, uint64(0x20000))

	dram, ok := cat.ByName("DRAM")
	itest.Equate(t, ok, true)
	itest.Equate(t, dram.SecondaryAddress, uint64(0x3FFAE000))
}

func TestLoadExpressionReferencesPriorEntry(t *testing.T) {
	data := []byte(`
IRAM:
  primary_address: 0x40080000
  length: 0x20000
IRAM_EXTRA:
  primary_address: "IRAM.primary_address + IRAM.length"
  length: 0x1000
`)
	cat, err := catalog.Load(data)
	itest.ExpectSuccess(t, err)

	extra, ok := cat.ByName("IRAM_EXTRA")
	itest.Equate(t, ok, true)
	itest.Equate(t, extra.PrimaryAddress, uint64(0x40080000+0x20000))
}

func TestLoadRenamesEntryWithNameField(t *testing.T) {
	data := []byte(`
DRAM_ALIAS:
  primary_address: 0x3FFB0000
  length: 0x1000
  name: DRAM
`)
	cat, err := catalog.Load(data)
	itest.ExpectSuccess(t, err)
	_, hasAlias := cat.ByName("DRAM_ALIAS")
	itest.Equate(t, hasAlias, false)
	_, hasRenamed := cat.ByName("DRAM")
	itest.Equate(t, hasRenamed, true)
}

func TestLoadUndefinedReferenceFails(t *testing.T) {
	data := []byte(`
IRAM:
  primary_address: "UNKNOWN.primary_address + 1"
  length: 0x1000
`)
	_, err := catalog.Load(data)
	itest.ExpectFailure(t, err)
}

func TestLoadEmptyDocument(t *testing.T) {
	cat, err := catalog.Load([]byte(""))
	itest.ExpectSuccess(t, err)
	itest.Equate(t, len(cat), 0)
}
