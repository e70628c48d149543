package apidb

import (
	"strings"

	"go.trai.ch/apilevel/internal/core/domain"
)

// javaPackages lists the java and javax packages shipped on the platform.
// Roots like java/awt are absent while selected sub-packages are present.
var javaPackages = map[string]struct{}{
	"java/awt/font":                       {},
	"java/beans":                          {},
	"java/io":                             {},
	"java/lang":                           {},
	"java/lang/annotation":                {},
	"java/lang/invoke":                    {},
	"java/lang/ref":                       {},
	"java/lang/reflect":                   {},
	"java/math":                           {},
	"java/net":                            {},
	"java/nio":                            {},
	"java/nio/channels":                   {},
	"java/nio/channels/spi":               {},
	"java/nio/charset":                    {},
	"java/nio/charset/spi":                {},
	"java/nio/file":                       {},
	"java/nio/file/attribute":             {},
	"java/nio/file/spi":                   {},
	"java/security":                       {},
	"java/security/acl":                   {},
	"java/security/cert":                  {},
	"java/security/interfaces":            {},
	"java/security/spec":                  {},
	"java/sql":                            {},
	"java/text":                           {},
	"java/time":                           {},
	"java/time/chrono":                    {},
	"java/time/format":                    {},
	"java/time/temporal":                  {},
	"java/time/zone":                      {},
	"java/util":                           {},
	"java/util/concurrent":                {},
	"java/util/concurrent/atomic":         {},
	"java/util/concurrent/locks":          {},
	"java/util/function":                  {},
	"java/util/jar":                       {},
	"java/util/logging":                   {},
	"java/util/prefs":                     {},
	"java/util/regex":                     {},
	"java/util/stream":                    {},
	"java/util/zip":                       {},
	"javax/crypto":                        {},
	"javax/crypto/interfaces":             {},
	"javax/crypto/spec":                   {},
	"javax/microedition/khronos/egl":      {},
	"javax/microedition/khronos/opengles": {},
	"javax/net":                           {},
	"javax/net/ssl":                       {},
	"javax/security/auth":                 {},
	"javax/security/auth/callback":        {},
	"javax/security/auth/login":           {},
	"javax/security/auth/x500":            {},
	"javax/security/cert":                 {},
	"javax/sql":                           {},
	"javax/xml":                           {},
	"javax/xml/datatype":                  {},
	"javax/xml/namespace":                 {},
	"javax/xml/parsers":                   {},
	"javax/xml/transform":                 {},
	"javax/xml/transform/dom":             {},
	"javax/xml/transform/sax":             {},
	"javax/xml/transform/stream":          {},
	"javax/xml/validation":                {},
	"javax/xml/xpath":                     {},
}

// IsValidJavaPackage reports whether the package of classPath is available on
// the platform. classPath may use dots or slashes. Classes outside java and
// javax are always valid; the answer never depends on a loaded index.
func IsValidJavaPackage(classPath string) bool {
	name := domain.InternalName(classPath)
	if !strings.HasPrefix(name, "java/") && !strings.HasPrefix(name, "javax/") {
		return true
	}
	i := strings.LastIndexByte(name, '/')
	_, ok := javaPackages[name[:i]]
	return ok
}
