// dumptodir - 把子目录中的文件平铺到一个目录
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package main

import "dumptodir/cmd"

// main 程序入口函数
func main() {
	cmd.Execute()
}
