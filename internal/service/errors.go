// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务错误分类。协作方（embedding/chat）的不可用错误分别定义在
// pkg/embedding 与 pkg/llm 中，随调用链向上传播。
var (
	// ErrEmptyDocument 表示上传的文档内容为空（在任何协作方调用前拒绝）。
	ErrEmptyDocument = errors.New("document is empty")
	// ErrMalformedUpload 表示上传内容不是合法的 UTF-8 文本。
	ErrMalformedUpload = errors.New("file must be a text file (UTF-8)")
	// ErrEmptyQuestion 表示问题为空（在任何协作方调用前拒绝）。
	ErrEmptyQuestion = errors.New("question cannot be empty")
	// ErrCorpusEmpty 表示语料库中不存在任何分块，与"有语料但无证据"是不同的情形，
	// 在打分之前检出。
	ErrCorpusEmpty = errors.New("no documents available")
)
