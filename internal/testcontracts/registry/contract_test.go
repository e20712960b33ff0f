package registry_test

import (
	"path"
	"testing"

	"github.com/block-webdev/wlmint-contract/internal/chaintest"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
)

const registryPath = "."

func TestRegistryChecksAuthority(t *testing.T) {
	e := chaintest.NewExecutor(t)

	ctr := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))
	e.DeployContract(t, ctr, nil)

	acc := e.NewAccount(t)
	c := e.NewInvoker(ctr.Hash, acc)
	h := acc.ScriptHash()
	creators := []any{[]any{h, false, 100}}

	c.InvokeFail(t, "invalid delegated authority", "createMetadata",
		h, []byte{}, []byte("t"), h, h, h, creators, "n", "s", "ipfs://a", true)
	c.InvokeFail(t, "invalid delegated authority", "createMetadata",
		h, []byte("NFT_CREATOR_SEED"), []byte("t"), h, h, h, creators, "n", "s", "ipfs://a", true)
	c.InvokeFail(t, "invalid delegated authority", "createMasterEdition",
		h, []byte("NFT_CREATOR_SEED"), []byte("t"), h, h, h, 0)

	c.Invoke(t, 0, "metadataCount")
	c.Invoke(t, 0, "editionCount")
	c.InvokeFail(t, "metadata not found", "getMetadata", []byte("t"))
}
