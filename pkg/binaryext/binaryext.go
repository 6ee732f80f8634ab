// Package binaryext holds the fixed list of file extensions the crawler
// skips fetching when selective download rules are active and a URL
// does not otherwise qualify.
package binaryext

import "strings"

// skip is the allowlist-of-refusals. It must be preserved verbatim: the
// membership, not the origin, is the contract downstream components rely on.
var skip = map[string]bool{
	"3dm": true, "3ds": true, "3g2": true, "3gp": true, "7z": true, "a": true,
	"aac": true, "adp": true, "ai": true, "aif": true, "aiff": true, "alz": true,
	"ape": true, "apk": true, "ar": true, "arj": true, "asf": true, "au": true,
	"avi": true, "bak": true, "baml": true, "bh": true, "bin": true, "bk": true,
	"bmp": true, "btif": true, "bz2": true, "bzip2": true, "cab": true, "caf": true,
	"cgm": true, "class": true, "cmx": true, "cpio": true, "cr2": true, "cur": true,
	"dat": true, "dcm": true, "deb": true, "dex": true, "djvu": true, "dll": true,
	"dmg": true, "dng": true, "doc": true, "docm": true, "docx": true, "dot": true,
	"dotm": true, "dra": true, "DS_Store": true, "dsk": true, "dts": true, "dtshd": true,
	"dvb": true, "dwg": true, "dxf": true, "ecelp4800": true, "ecelp7470": true,
	"ecelp9600": true, "egg": true, "eol": true, "eot": true, "epub": true, "exe": true,
	"f4v": true, "fbs": true, "fh": true, "fla": true, "flac": true, "fli": true,
	"flv": true, "fpx": true, "fst": true, "fvt": true, "g3": true, "gh": true,
	"gif": true, "graffle": true, "gz": true, "gzip": true, "h261": true, "h263": true,
	"h264": true, "icns": true, "ico": true, "ief": true, "img": true, "ipa": true,
	"iso": true, "jar": true, "jpeg": true, "jpg": true, "jpgv": true, "jpm": true,
	"jxr": true, "key": true, "ktx": true, "lha": true, "lib": true, "lvp": true,
	"lz": true, "lzh": true, "lzma": true, "lzo": true, "m3u": true, "m4a": true,
	"m4v": true, "mar": true, "mdi": true, "mht": true, "mid": true, "midi": true,
	"mj2": true, "mka": true, "mkv": true, "mmr": true, "mng": true, "mobi": true,
	"mov": true, "movie": true, "mp3": true, "mp4": true, "mp4a": true, "mpeg": true,
	"mpg": true, "mpga": true, "mxu": true, "nef": true, "npx": true, "numbers": true,
	"nupkg": true, "o": true, "oga": true, "ogg": true, "ogv": true, "otf": true,
	"pages": true, "pbm": true, "pcx": true, "pdb": true, "pdf": true, "pea": true,
	"pgm": true, "pic": true, "png": true, "pnm": true, "pot": true, "potm": true,
	"potx": true, "ppa": true, "ppam": true, "ppm": true, "pps": true, "ppsm": true,
	"ppsx": true, "ppt": true, "pptm": true, "pptx": true, "psd": true, "pya": true,
	"pyc": true, "pyo": true, "pyv": true, "qt": true, "rar": true, "ras": true,
	"raw": true, "resources": true, "rgb": true, "rip": true, "rlc": true, "rmf": true,
	"rmvb": true, "rtf": true, "rz": true, "s3m": true, "s7z": true, "scpt": true,
	"sgi": true, "shar": true, "sil": true, "sketch": true, "slk": true, "smv": true,
	"snk": true, "so": true, "stl": true, "suo": true, "sub": true, "swf": true,
	"tar": true, "tbz": true, "tbz2": true, "tga": true, "tgz": true, "thmx": true,
	"tif": true, "tiff": true, "tlz": true, "ttc": true, "ttf": true, "txz": true,
	"udf": true, "uvh": true, "uvi": true, "uvm": true, "uvp": true, "uvs": true,
	"uvu": true, "viv": true, "vob": true, "war": true, "wav": true, "wax": true,
	"wbmp": true, "wdp": true, "weba": true, "webm": true, "webp": true, "whl": true,
	"wim": true, "wm": true, "wma": true, "wmv": true, "wmx": true, "woff": true,
	"woff2": true, "wrm": true, "wvx": true, "xbm": true, "xif": true, "xla": true,
	"xlam": true, "xls": true, "xlsb": true, "xlsm": true, "xlsx": true, "xlt": true,
	"xltm": true, "xltx": true, "xm": true, "xmind": true, "xpi": true, "xpm": true,
	"xwd": true, "xz": true, "z": true, "zip": true, "zipx": true,
}

// Is reports whether path's final extension (the text after its last dot,
// case-sensitive except for the leading separator) names a binary format
// the crawler refuses to fetch under selective-download rules.
func Is(path string) bool {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 || idx == len(path)-1 {
		return false
	}
	return skip[path[idx+1:]]
}
