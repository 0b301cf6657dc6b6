// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the meridian transaction script language.

This package provides data structures and functions to parse and build
transaction scripts as well as count the signature operations they contain.
Script execution is out of scope. The tokenizer is tolerant of malformed
scripts: walking one yields whatever prefix parses.
*/
package txscript
