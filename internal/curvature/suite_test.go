package curvature_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCurvature(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Curvature Suite")
}
