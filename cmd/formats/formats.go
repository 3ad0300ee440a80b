// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package formats

import (
	"github.com/organon-lang/organon/util"
)

type option = string

const (
	Pretty option = "pretty"
	JSON   option = "json"
)

// Returns an enum flag for the given formats, where the first provided format
// will be used as the default format.
func Flag(formats ...option) *util.EnumFlag {
	return util.NewEnumFlag(formats[0], formats)
}
