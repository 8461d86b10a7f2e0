package dictionary

import (
	"strings"

	"github.com/pborman/uuid"
)

func lookupID(from string, to string, term string) string {
	return uuid.NewMD5(uuid.UUID{}, []byte(strings.Join([]string{from, to, term}, "|"))).String()
}
