/*
Package contracts reads compiled whitelist mint contracts and provides access
to them.

Compiled artifacts are expected in per-contract directories of the given
file system, each holding contract.nef and manifest.json files as produced by
the neo-go compiler.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	WhitelistDir   = "whitelist"
	CollectibleDir = "collectible" // reference collaborator, not deployed to production chains.
	RegistryDir    = "registry"    // reference collaborator, not deployed to production chains.

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	mainContracts = []string{
		WhitelistDir,
	}
	collaboratorContracts = []string{
		CollectibleDir,
		RegistryDir,
	}
)

// GetMain returns the whitelist contract from the artifact file system.
func GetMain(fsys fs.FS) (Contract, error) {
	c, err := read(fsys, mainContracts)
	if err != nil {
		return Contract{}, err
	}
	return c[0], nil
}

// GetCollaborators returns reference collaborator contracts from the artifact
// file system. They're returned in the order they're supposed to be deployed:
// token first, registry second.
func GetCollaborators(fsys fs.FS) ([]Contract, error) {
	return read(fsys, collaboratorContracts)
}

// Read returns contracts from the named directories of the file system.
func Read(fsys fs.FS, dirs ...string) ([]Contract, error) {
	return read(fsys, dirs)
}

func read(fsys fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(fsys, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/", so filepath.Join() is not applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
