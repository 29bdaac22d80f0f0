package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates 模板目录
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static 静态资源目录
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
