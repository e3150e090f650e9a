/*
 * AssocDB
 *
 * Copyright 2020 Akira Teranishi. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package assoc

import (
	"github.com/ateranishi/assocdb/assoc/docstore"
	"github.com/ateranishi/assocdb/config"
)

/*
NewManagerFromConfig creates a manager with a document store built from
the loaded configuration. Depending on MemoryOnlyStorage the store is
memory-only or persisted at LocationDatastore. The store profile and
the result cache sizing are taken from the configuration as well.
*/
func NewManagerFromConfig(schema *Schema) (*Manager, error) {
	var mds *docstore.MemoryDocStore
	var ds docstore.Store

	if config.Config == nil {
		config.LoadDefaultConfig()
	}

	name := config.Str(config.LocationDatastore)

	if config.Bool(config.MemoryOnlyStorage) {
		mds = docstore.NewMemoryDocStore(name)
		ds = mds

	} else {
		dds, err := docstore.NewDiskDocStore(name)

		if err != nil {
			return nil, err
		}

		mds = dds.MemoryDocStore
		ds = dds
	}

	maxsize := config.Int(config.ResultCacheMaxSize)
	maxage := config.Int(config.ResultCacheMaxAgeSeconds)

	if maxsize > 0 || maxage > 0 {
		mds.EnableResultCache(uint64(maxsize), maxage)
	}

	return NewManager(ds, config.Str(config.StoreProfile), schema)
}
