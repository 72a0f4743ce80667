package envprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/alexisbeaulieu97/eetest/internal/artifact"
	"github.com/alexisbeaulieu97/eetest/internal/command"
	"github.com/alexisbeaulieu97/eetest/internal/config"
	"github.com/alexisbeaulieu97/eetest/internal/logger"
	"github.com/alexisbeaulieu97/eetest/internal/target"
	"github.com/alexisbeaulieu97/eetest/pkg/diff"
	eeerrors "github.com/alexisbeaulieu97/eetest/pkg/errors"
)

// stubClientset swaps NewClientset for the duration of a test. Tests using it
// must not run in parallel.
func stubClientset(t *testing.T, fn func(string) (kubernetes.Interface, error)) {
	t.Helper()
	original := NewClientset
	NewClientset = fn
	t.Cleanup(func() { NewClientset = original })
}

func writeKubeconfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["kind-kind"] = &clientcmdapi.Cluster{Server: "https://127.0.0.1:41234"}
	cfg.Clusters["kind-other"] = &clientcmdapi.Cluster{Server: "https://127.0.0.1:41235"}
	cfg.AuthInfos["kind-kind"] = &clientcmdapi.AuthInfo{Token: "abc"}
	cfg.Contexts["kind-kind"] = &clientcmdapi.Context{Cluster: "kind-kind", AuthInfo: "kind-kind"}
	cfg.CurrentContext = "kind-kind"

	path := filepath.Join(dir, "config")
	require.NoError(t, clientcmd.WriteToFile(*cfg, path))
	return path
}

func node(name string, addrs ...corev1.NodeAddress) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.NodeStatus{Addresses: addrs},
	}
}

func TestKubePrepareRewritesServers(t *testing.T) {
	stubClientset(t, func(string) (kubernetes.Interface, error) {
		return fake.NewSimpleClientset(node("kind-control-plane",
			corev1.NodeAddress{Type: corev1.NodeHostName, Address: "kind-control-plane"},
			corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "172.18.0.2"},
		)), nil
	})

	kubeconfig := writeKubeconfig(t, t.TempDir())
	tempDir := t.TempDir()
	p := NewKube(kubeconfig, "/src/targets", tempDir, logger.Nop())

	require.NoError(t, p.Prepare(context.Background()))
	rewritten := p.RewrittenPath()
	require.Equal(t, tempDir, filepath.Dir(rewritten))

	cfg, err := clientcmd.LoadFromFile(rewritten)
	require.NoError(t, err)
	require.Len(t, cfg.Clusters, 2)
	for _, cluster := range cfg.Clusters {
		require.Equal(t, "https://172.18.0.2:6443", cluster.Server)
	}
	require.Equal(t, "kind-kind", cfg.CurrentContext)

	rewriteDiff := p.RewriteDiff()
	require.Contains(t, rewriteDiff, "+    server: https://172.18.0.2:6443")
	require.Contains(t, rewriteDiff, "-    server: https://127.0.0.1:41234")
	added, removed := diff.Changed(rewriteDiff)
	require.Equal(t, 2, added)
	require.Equal(t, 2, removed)

	original, err := clientcmd.LoadFromFile(kubeconfig)
	require.NoError(t, err)
	require.Equal(t, "https://127.0.0.1:41234", original.Clusters["kind-kind"].Server)

	mounted := "/.kube/" + filepath.Base(rewritten)
	require.Equal(t, []command.EnvVar{
		{Key: "ANSIBLE_ROLES_PATH", Value: "/roles"},
		{Key: "K8S_AUTH_KUBECONFIG", Value: mounted},
	}, p.Assignments())
	require.Equal(t, []command.Mount{
		{Source: "/src/targets", Target: "/roles", Options: "Z"},
		{Source: tempDir, Target: "/.kube", Options: "Z"},
	}, p.NavigatorMounts())

	run := p.ContainerRun(target.Target{Name: "k8s_info", Path: "/src/targets/k8s_info"}, "/tmp/ignored.yaml")
	require.Equal(t, []string{
		"run", "--network", "kind",
		"--env", "K8S_AUTH_KUBECONFIG=" + mounted,
		"-v", "/src/targets:/targets",
		"-v", tempDir + ":/.kube:Z",
		"-w", "/targets/k8s_info",
		"ee:1", "./runme.sh",
	}, run.Build("ee:1").Args)

	require.NoError(t, p.Cleanup())
	_, err = os.Stat(rewritten)
	require.True(t, os.IsNotExist(err))
	require.NoError(t, p.Cleanup())
}

func TestKubePrepareDiscoveryFailures(t *testing.T) {
	cases := []struct {
		name      string
		clientset func(string) (kubernetes.Interface, error)
		contains  string
	}{
		{
			name: "client construction fails",
			clientset: func(string) (kubernetes.Interface, error) {
				return nil, errors.New("no such host")
			},
			contains: "build client",
		},
		{
			name: "no nodes",
			clientset: func(string) (kubernetes.Interface, error) {
				return fake.NewSimpleClientset(), nil
			},
			contains: "cluster reported no nodes",
		},
		{
			name: "node without internal ip",
			clientset: func(string) (kubernetes.Interface, error) {
				return fake.NewSimpleClientset(node("worker",
					corev1.NodeAddress{Type: corev1.NodeExternalIP, Address: "203.0.113.4"},
				)), nil
			},
			contains: "node worker has no InternalIP address",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stubClientset(t, tc.clientset)
			p := NewKube(writeKubeconfig(t, t.TempDir()), "/src/targets", t.TempDir(), nil)

			err := p.Prepare(context.Background())
			var discoveryErr *eeerrors.DiscoveryError
			require.ErrorAs(t, err, &discoveryErr)
			require.Contains(t, err.Error(), tc.contains)
			require.Empty(t, p.RewrittenPath())
		})
	}
}

func TestKubePrepareUnreadableKubeconfig(t *testing.T) {
	stubClientset(t, func(string) (kubernetes.Interface, error) {
		return fake.NewSimpleClientset(node("n", corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "10.0.0.1"})), nil
	})

	missing := filepath.Join(t.TempDir(), "config")
	p := NewKube(missing, "/src/targets", t.TempDir(), nil)

	err := p.Prepare(context.Background())
	var parseErr *eeerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, missing, parseErr.Path)
}

func TestKubeDefaults(t *testing.T) {
	t.Setenv(clientcmd.RecommendedConfigPathEnvVar, "")

	p := NewKube("", "/src/targets", "", nil)
	require.Equal(t, clientcmd.RecommendedHomeFile, p.kubeconfig)
	require.Equal(t, "k8s", p.Name())
	require.Equal(t, artifact.ModeRole, p.PlaybookMode())
	require.Nil(t, p.Variables(config.Generated{}))
}

func TestKubeDefaultHonoursKubeconfigEnv(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	kubeconfig := writeKubeconfig(t, t.TempDir())
	t.Setenv(clientcmd.RecommendedConfigPathEnvVar, missing+string(os.PathListSeparator)+kubeconfig)

	p := NewKube("", "/src/targets", "", nil)
	require.Equal(t, kubeconfig, p.kubeconfig)

	explicit := NewKube("/etc/kube/admin.conf", "/src/targets", "", nil)
	require.Equal(t, "/etc/kube/admin.conf", explicit.kubeconfig)
}

func TestKubeDebugLogOmitsCredentials(t *testing.T) {
	stubClientset(t, func(string) (kubernetes.Interface, error) {
		return fake.NewSimpleClientset(node("kind-control-plane",
			corev1.NodeAddress{Type: corev1.NodeInternalIP, Address: "172.18.0.2"},
		)), nil
	})

	const (
		token = "kind-bearer-token-value"
		key   = "PRIVATE-KEY-MATERIAL"
	)
	cfg := clientcmdapi.NewConfig()
	cfg.Clusters["kind-kind"] = &clientcmdapi.Cluster{Server: "https://127.0.0.1:41234"}
	cfg.AuthInfos["kind-kind"] = &clientcmdapi.AuthInfo{Token: token, ClientKeyData: []byte(key)}
	cfg.Contexts["kind-kind"] = &clientcmdapi.Context{Cluster: "kind-kind", AuthInfo: "kind-kind"}
	cfg.CurrentContext = "kind-kind"
	kubeconfig := filepath.Join(t.TempDir(), "config")
	require.NoError(t, clientcmd.WriteToFile(*cfg, kubeconfig))

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Format: logger.FormatJSON, Writer: buf})
	require.NoError(t, err)

	p := NewKube(kubeconfig, "/src/targets", t.TempDir(), log)
	require.NoError(t, p.Prepare(context.Background()))
	t.Cleanup(func() { _ = p.Cleanup() })

	logged := buf.String()
	require.Contains(t, logged, "kubeconfig rewritten")
	require.Contains(t, logged, "https://172.18.0.2:6443")
	for _, secret := range []string{token, key, base64.StdEncoding.EncodeToString([]byte(key))} {
		require.NotContains(t, logged, secret)
		require.NotContains(t, p.RewriteDiff(), secret)
	}
}
