// Package proteomisc contains the input plumbing shared by the proteomics
// tools: opening local or Google Storage files, undoing compression, and
// sniffing the delimiter of instrument exports. The tables themselves live in
// the frame package.
package proteomisc
