package postprocess_test

import (
	"testing"

	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/mapfile"
	"github.com/espressif/idfsize/postprocess"
)

func TestBuildArchiveDependenciesForwardAndReverse(t *testing.T) {
	xref := map[string]mapfile.CrossReferenceEntry{
		"vTaskDelay": {
			Symbol:     "vTaskDelay",
			Definition: mapfile.Location{Archive: "libfreertos.a", ObjectFile: "tasks.o"},
			References: []mapfile.Location{
				{Archive: "libapp.a", ObjectFile: "main.o"},
			},
		},
	}
	elfSymbols := []elfreader.Symbol{
		{Name: "vTaskDelay", Size: 0x40, Info: uint8(elfreader.STT_FUNC)},
	}

	deps := postprocess.BuildArchiveDependencies(xref, elfSymbols)

	fwd, ok := deps.Forward["libapp.a"]
	itest.Equate(t, ok, true)
	_, hasFreertos := fwd["libfreertos.a"]
	itest.Equate(t, hasFreertos, true)

	rev, ok := deps.Reverse["libfreertos.a"]
	itest.Equate(t, ok, true)
	_, hasApp := rev["libapp.a"]
	itest.Equate(t, hasApp, true)
}

func TestBuildArchiveDependenciesElidesSelfOnly(t *testing.T) {
	xref := map[string]mapfile.CrossReferenceEntry{
		"helper": {
			Symbol:     "helper",
			Definition: mapfile.Location{Archive: "libself.a", ObjectFile: "a.o"},
			References: []mapfile.Location{
				{Archive: "libself.a", ObjectFile: "b.o"},
			},
		},
	}
	elfSymbols := []elfreader.Symbol{
		{Name: "helper", Size: 0x10, Info: uint8(elfreader.STT_FUNC)},
	}

	deps := postprocess.BuildArchiveDependencies(xref, elfSymbols)
	_, hasForward := deps.Forward["libself.a"]
	itest.Equate(t, hasForward, false)
	_, hasReverse := deps.Reverse["libself.a"]
	itest.Equate(t, hasReverse, false)
}

func TestBuildArchiveDependenciesDropsSymbolsNotInELF(t *testing.T) {
	xref := map[string]mapfile.CrossReferenceEntry{
		"unknown_symbol": {
			Symbol:     "unknown_symbol",
			Definition: mapfile.Location{Archive: "libfoo.a", ObjectFile: "foo.o"},
			References: []mapfile.Location{
				{Archive: "libbar.a", ObjectFile: "bar.o"},
			},
		},
	}
	deps := postprocess.BuildArchiveDependencies(xref, nil)
	itest.Equate(t, len(deps.Forward), 0)
}
