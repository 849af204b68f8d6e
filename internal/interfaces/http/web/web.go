// Package web 内嵌服务端渲染页面的模板
package web

import (
	"embed"
	"html/template"
)

// IndexTemplate 首页模板名
const IndexTemplate = "index.tmpl"

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates 解析内嵌模板，供 gin.Engine.SetHTMLTemplate 使用
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.tmpl")
}
