package catch_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Catch Suite")
}
