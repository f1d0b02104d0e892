package postings_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPostings(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Postings Suite")
}
