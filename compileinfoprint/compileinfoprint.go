// compileinfoprint is imported by commands for the side effect of logging
// how the binary was built.
package compileinfoprint

import "github.com/carbocation/proteomisc/compileinfo"

func init() {
	compileinfo.Log()
}
