package osinfo

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
	"golang.org/x/exp/slices"

	"github.com/sol-eng/wbi/pkg/types"
)

var osReleasePath = "/etc/os-release"

var ubuntuReleases = map[string]types.OSCode{
	"20.04": types.Ubuntu20,
	"22.04": types.Ubuntu22,
}

var redhatReleases = map[string]types.OSCode{
	"7": types.Redhat7,
	"8": types.Redhat8,
	"9": types.Redhat9,
}

var redhatIDs = []string{"rhel", "centos", "rocky", "almalinux", "ol"}

func readOSRelease(path string) (gotenv.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gotenv.StrictParse(f)
}

// Detect returns the OS code of the running host from its os-release file.
func Detect() (types.OSCode, error) {
	env, err := readOSRelease(osReleasePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", osReleasePath, err)
	}
	return FromOSRelease(env["ID"], env["ID_LIKE"], env["VERSION_ID"])
}

// FromOSRelease maps os-release ID, ID_LIKE and VERSION_ID values to an OS code.
func FromOSRelease(id, idLike, versionID string) (types.OSCode, error) {
	id = strings.ToLower(id)
	log.WithFields(log.Fields{"id": id, "idLike": idLike, "versionID": versionID}).Debug("os-release")

	if id == "ubuntu" {
		if code, ok := ubuntuReleases[versionID]; ok {
			return code, nil
		}
		return "", unsupported(fmt.Sprintf("%s %s", id, versionID))
	}

	if isRedhatFamily(id, idLike) {
		major, _, _ := strings.Cut(versionID, ".")
		if code, ok := redhatReleases[major]; ok {
			return code, nil
		}
	}
	return "", unsupported(fmt.Sprintf("%s %s", id, versionID))
}

func isRedhatFamily(id, idLike string) bool {
	if slices.Contains(redhatIDs, id) {
		return true
	}
	for _, like := range strings.Fields(strings.ToLower(idLike)) {
		if like == "rhel" {
			return true
		}
	}
	return false
}
