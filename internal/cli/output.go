package cli

import (
	"fmt"
	"io"

	"github.com/mrlokans/hadith/internal/entities"
)

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func printHadith(w io.Writer, h entities.Hadith) {
	fprintf(w, "[%s]\n%s\n\n", h.UID, h.TextAr)
}

func printHadithList(w io.Writer, rows []entities.Hadith, empty string) {
	if len(rows) == 0 {
		fprintln(w, empty)
		return
	}
	for _, h := range rows {
		printHadith(w, h)
	}
	fprintf(w, "%d hadith\n", len(rows))
}
